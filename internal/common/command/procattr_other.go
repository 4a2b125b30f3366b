//go:build !unix

package command

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}
