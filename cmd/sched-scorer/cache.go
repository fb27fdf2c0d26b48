// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and prune the score cache",
	Long: `Cache manages the per-(profile, content-hash) score files under the
cache directory. Each file holds one complete scoring run; a file
becomes stale automatically when the schedule or profile changes, but
stale files are never deleted unless you clear them here.`,
}

// --- list subcommand ---

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List score cache entries",
	RunE:  runCacheList,
}

func runCacheList(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")

	entries, err := scoreCacheFiles(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No score cache entries.")
		return nil
	}

	fmt.Printf("%-50s  %10s  %s\n", "Entry", "Size", "Modified")
	fmt.Println(strings.Repeat("-", 82))
	for _, path := range entries {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		fmt.Printf("%-50s  %10d  %s\n",
			filepath.Base(path), info.Size(), info.ModTime().Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all score cache entries",
	Long: `Clear deletes every score cache file under the cache directory. The
cached ICS feed is left alone; use 'fetch --refresh' to renew it.`,
	RunE: runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("cache-dir")

	entries, err := scoreCacheFiles(dir)
	if err != nil {
		return err
	}

	removed := 0
	for _, path := range entries {
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not remove %s: %v\n", path, err)
			continue
		}
		removed++
	}
	fmt.Printf("Removed %d cache entries.\n", removed)
	return nil
}

// scoreCacheFiles returns the score cache files under dir, sorted by
// name. A missing directory is an empty cache, not an error.
func scoreCacheFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "scores_*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing cache directory %s: %w", dir, err)
	}
	return matches, nil
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", defaultCacheDir, "directory holding cache files")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
