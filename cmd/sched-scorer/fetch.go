// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sched-scorer/internal/feed"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the ICS feed and print parse statistics",
	Long: `Fetch downloads the conference ICS feed into the cache (or reuses a
copy younger than 24 hours) and reports how many events parse and how
many survive normalization. Useful for validating the feed before
spending AI budget.

With --refresh a failed download is an error; without it, a stale
cached copy is used as a fallback.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("ics-url", "", "override the ICS feed URL")
	fetchCmd.Flags().Bool("refresh", false, "force re-download of the ICS feed")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	forceRefresh, _ := cmd.Flags().GetBool("refresh")
	cfg := feedConfig(cmd)

	var data []byte
	var fromCache bool
	var err error
	if forceRefresh {
		// An explicit refresh that fails should fail, not fall back.
		client := &http.Client{Timeout: cfg.Timeout}
		data, fromCache, err = feed.Fetch(cmd.Context(), client, cfg, true)
	} else {
		data, fromCache, err = fetchWithStaleFallback(cmd.Context(), log, cfg, false)
	}
	if err != nil {
		return err
	}

	if fromCache {
		fmt.Printf("Using cached feed: %s\n", feed.CachePath(cfg))
	} else {
		fmt.Printf("Feed downloaded to: %s (%d bytes)\n", feed.CachePath(cfg), len(data))
	}

	parsed, err := feed.Parse(data, log)
	if err != nil {
		return err
	}
	events := feed.Normalize(parsed, nil)

	fmt.Printf("Parsed events:   %d\n", len(parsed))
	fmt.Printf("Scorable events: %d\n", len(events))
	fmt.Printf("Filtered out:    %d\n", len(parsed)-len(events))
	return nil
}
