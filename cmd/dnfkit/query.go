package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/obentoo/dnfkit/internal/common/output"
	"github.com/obentoo/dnfkit/internal/dnf"
	"github.com/spf13/cobra"
)

var installedFilter string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search available packages",
	Long:  `Search package names and summaries. Results are cached for the session.`,
	Args:  cobra.MinimumNArgs(1),
	Run:   runSearch,
}

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show package details",
	Long:  `Show details for a package. Falls back to the local package database when the repositories cannot answer.`,
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "List installed packages",
	Args:  cobra.NoArgs,
	Run:   runInstalled,
}

var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "List available updates",
	Long:  `List packages with available updates, classified as major, minor, patch or release updates.`,
	Args:  cobra.NoArgs,
	Run:   runUpdates,
}

func init() {
	installedCmd.Flags().StringVarP(&installedFilter, "filter", "f", "", "Only show packages whose name or summary contains this text")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(installedCmd)
	rootCmd.AddCommand(updatesCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	a := mustSetup()
	ctx, stop := signalContext()
	defer stop()

	query := strings.Join(args, " ")
	results, err := await(ctx, func(ctx context.Context) ([]dnf.Package, error) {
		return a.backend.Search(ctx, query)
	})
	if err != nil {
		failErr(err)
	}

	if len(results) == 0 {
		output.PrintWarning("No packages found for %q", query)
		return
	}

	width := output.Width()
	for _, p := range results {
		fmt.Println(formatPackageLine(p, width))
	}
	output.PrintInfo("%s found", countLabel(len(results), "package"))
}

func runInfo(cmd *cobra.Command, args []string) {
	a := mustSetup()
	ctx, stop := signalContext()
	defer stop()

	info, err := await(ctx, func(ctx context.Context) (*dnf.PackageInfo, error) {
		return a.backend.Info(ctx, args[0])
	})
	if err != nil {
		failErr(err)
	}

	printInfo(info)
}

// printInfo prints the labeled fields and the description of a package
func printInfo(info *dnf.PackageInfo) {
	for _, f := range infoFields(info) {
		output.Field(f[0], f[1])
	}
	if info.Installed {
		output.Field("Status", output.Installed.Sprint("installed"))
	}
	if info.Description != "" {
		fmt.Println()
		fmt.Println(info.Description)
	}
}

func runInstalled(cmd *cobra.Command, args []string) {
	a := mustSetup()
	ctx, stop := signalContext()
	defer stop()

	pkgs, err := await(ctx, a.backend.ListInstalled)
	if err != nil {
		failErr(err)
	}

	pkgs = dnf.FilterPackages(pkgs, installedFilter)
	width := output.Width()
	for _, p := range pkgs {
		fmt.Println(formatInstalledLine(p, width))
	}
	output.PrintInfo("%s installed", countLabel(len(pkgs), "package"))
}

func runUpdates(cmd *cobra.Command, args []string) {
	a := mustSetup()
	ctx, stop := signalContext()
	defer stop()

	output.PrintInfo("Checking for updates...")
	updates, err := await(ctx, a.backend.CheckUpdates)
	if err != nil {
		failErr(err)
	}

	if len(updates) == 0 {
		output.PrintSuccess("System is up to date")
		return
	}

	width := output.Width()
	for _, u := range updates {
		fmt.Println(formatUpdateLine(u))
		if u.Summary != "" {
			fmt.Println("  " + output.Dim.Sprint(output.Truncate(u.Summary, width-2)))
		}
	}
	output.PrintInfo("%s available", countLabel(len(updates), "update"))
}
