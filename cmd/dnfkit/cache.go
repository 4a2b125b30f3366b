package main

import (
	"strconv"

	"github.com/obentoo/dnfkit/internal/common/output"
	"github.com/obentoo/dnfkit/internal/common/prefs"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Control search result caching",
	Long: `Enable, disable or inspect search result caching.

The setting is stored in preferences.ini and applies to every dnfkit process.
Cached results live in memory, so clearing them is done from "dnfkit shell".`,
}

var cacheEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable search result caching",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setCacheEnabled(true)
	},
}

var cacheDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable search result caching",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setCacheEnabled(false)
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache settings",
	Args:  cobra.NoArgs,
	Run:   runCacheStatus,
}

func init() {
	cacheCmd.AddCommand(cacheEnableCmd)
	cacheCmd.AddCommand(cacheDisableCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	rootCmd.AddCommand(cacheCmd)
}

func setCacheEnabled(enabled bool) {
	a := mustSetup()
	if err := a.backend.SetCacheEnabled(enabled); err != nil {
		fail("%v", err)
	}
	if enabled {
		output.PrintSuccess("Search cache enabled")
	} else {
		output.PrintSuccess("Search cache disabled")
	}
}

func runCacheStatus(cmd *cobra.Command, args []string) {
	a := mustSetup()
	stats := a.backend.CacheStats()

	state := output.Warning.Sprint("disabled")
	if stats.Enabled {
		state = output.Success.Sprint("enabled")
	}
	output.Field("Cache", state)
	output.Field("Capacity", strconv.Itoa(stats.Capacity))
	output.Field("TTL", stats.TTL)
	output.Field("Preferences", a.prefs.Path())
	output.Field(prefs.KeyEnableCache, a.prefs.Get(prefs.KeyEnableCache, "true"))
}
