package main

import (
	"fmt"

	"github.com/obentoo/dnfkit/internal/common/config"
	"github.com/obentoo/dnfkit/internal/common/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or reset the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fail("loading config: %v", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail("encoding config: %v", err)
		}
		fmt.Print(string(data))
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if configPath != "" {
			fmt.Println(configPath)
			return
		}
		path, err := config.FindConfigPath()
		if err != nil {
			fail("%v", err)
		}
		fmt.Println(path)
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the config file with defaults",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := resetConfig()
		if err != nil {
			fail("resetting config: %v", err)
		}
		output.PrintSuccess("Wrote defaults to %s", path)
	},
}

// resetConfig writes the default configuration to --config or the default
// path and returns where it went
func resetConfig() (string, error) {
	cfg := config.Default()
	if configPath != "" {
		return configPath, cfg.SaveTo(configPath)
	}
	if err := cfg.Save(); err != nil {
		return "", err
	}
	return config.DefaultConfigPath()
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}
