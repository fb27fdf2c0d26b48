// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sched-scorer CLI.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sched-scorer/internal/logging"
	"github.com/pdiddy/sched-scorer/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// log is the process-wide diagnostic logger, built in the root
// PersistentPreRunE. User-facing progress goes to stdout, not here.
var log = logging.NewNop()

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the sched-scorer CLI.
var rootCmd = &cobra.Command{
	Use:   "sched-scorer",
	Short: "Score a conference schedule against an attendee profile",
	Long: `sched-scorer downloads a conference ICS schedule, filters it down to
scorable sessions, asks an AI provider to rate each session against an
attendee profile, and renders a self-contained HTML report with
client-side filtering.

Scores are cached per (profile, schedule content) pair, so re-running
against an unchanged schedule makes no AI calls.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		log = logger

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sched-scorer.yaml or ~/.config/sched-scorer/sched-scorer.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sched-scorer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sched-scorer"))
		}
	}

	viper.SetEnvPrefix("SCHED_SCORER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Flag-over-config resolution: an explicitly set flag wins, then the
// config file (or SCHED_SCORER_* env), then the built-in default.

func stringSetting(cmd *cobra.Command, flag, key, def string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return def
}

func intSetting(cmd *cobra.Command, flag, key string, def int) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return def
}

func durationSetting(cmd *cobra.Command, flag, key string, def time.Duration) time.Duration {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return def
}

func main() {
	defer func() { log.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
