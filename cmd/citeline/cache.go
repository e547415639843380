package main

import (
	"github.com/matsen/citeline/internal/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the resolution cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and entry count",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached resolutions",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// CacheInfoResult is the JSON output for cache info.
type CacheInfoResult struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	c, err := cache.Open(cfg.Resolver.CachePath)
	if err != nil {
		exitWithError(ExitConfigError, "opening cache: %s", err)
	}
	defer c.Close()

	n, err := c.Len()
	if err != nil {
		return err
	}

	result := CacheInfoResult{Path: cfg.Resolver.CachePath, Entries: n}
	if humanOutput {
		outputHuman("cache: %s (%d entries)\n", result.Path, result.Entries)
		return nil
	}
	return outputJSON(result)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	c, err := cache.Open(cfg.Resolver.CachePath)
	if err != nil {
		exitWithError(ExitConfigError, "opening cache: %s", err)
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return err
	}

	if humanOutput {
		outputHuman("cache cleared\n")
		return nil
	}
	return outputJSON(StatusResponse{Status: "cleared", Path: cfg.Resolver.CachePath})
}
