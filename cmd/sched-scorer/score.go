// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/sched-scorer/internal/feed"
	"github.com/pdiddy/sched-scorer/internal/logging"
	"github.com/pdiddy/sched-scorer/internal/profile"
	"github.com/pdiddy/sched-scorer/internal/provider"
	"github.com/pdiddy/sched-scorer/internal/report"
	"github.com/pdiddy/sched-scorer/internal/score"
	"github.com/pdiddy/sched-scorer/pkg/types"
)

const (
	defaultFeedTimeout  = 30 * time.Second
	defaultScoreTimeout = 60 * time.Second
	defaultUserAgent    = "sched-scorer/0.1"
	defaultCacheDir     = ".cache"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Fetch, score, and report the conference schedule",
	Long: `Score runs the full pipeline: fetch the ICS feed (cached for 24 hours),
normalize it down to scorable sessions, score each session against the
profile via the selected AI provider, and write a self-contained HTML
report.

Scores are cached per (profile, schedule content) pair; a re-run against
an unchanged schedule makes no AI calls. Changing --min-score only
changes what the report includes and never triggers re-scoring.

With --dry-run the pipeline stops after normalization and prints feed
statistics without contacting any AI provider.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringP("profile", "p", "", "path to the YAML attendee profile (required)")
	scoreCmd.Flags().String("provider", "", "AI provider: claude, openai, or gemini (default claude)")
	scoreCmd.Flags().String("model", "", "override the provider's default model")
	scoreCmd.Flags().String("api-key", "", "API key (default: .secrets/ file, then provider env var)")
	scoreCmd.Flags().Int("batch-size", 0, "events per scoring request (default 12)")
	scoreCmd.Flags().Int("concurrency", 0, "scoring requests in flight (default 1)")
	scoreCmd.Flags().StringP("output", "o", "", "report path (default output/schedule_{profile}.html)")
	scoreCmd.Flags().Int("min-score", 0, "exclude events scoring below this total")
	scoreCmd.Flags().Bool("refresh", false, "force re-download of the ICS feed")
	scoreCmd.Flags().Bool("no-cache", false, "bypass the score cache for this run")
	scoreCmd.Flags().Bool("dry-run", false, "fetch and parse only; no AI calls")
	scoreCmd.Flags().String("ics-url", "", "override the ICS feed URL")

	scoreCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runID := uuid.NewString()
	rlog := log.With("run_id", runID)
	rlog.Debug("starting run")

	profilePath, _ := cmd.Flags().GetString("profile")
	fmt.Printf("Loading profile: %s\n", profilePath)
	prof, err := profile.Load(profilePath)
	if err != nil {
		return err
	}
	fmt.Printf("  Profile: %s (%s)\n", prof.Name, prof.Role)

	forceRefresh, _ := cmd.Flags().GetBool("refresh")
	feedCfg := feedConfig(cmd)

	fmt.Println("Fetching schedule...")
	data, fromCache, err := fetchWithStaleFallback(ctx, rlog, feedCfg, forceRefresh)
	if err != nil {
		return err
	}
	if fromCache {
		fmt.Printf("  Using cached feed: %s\n", feed.CachePath(feedCfg))
	} else {
		fmt.Printf("  Feed cached at: %s\n", feed.CachePath(feedCfg))
	}

	fmt.Println("Parsing events...")
	parsed, err := feed.Parse(data, rlog)
	if err != nil {
		return err
	}
	fmt.Printf("  Total events in feed: %d\n", len(parsed))

	events := feed.Normalize(parsed, prof.ExcludeCategories)
	fmt.Printf("  Scorable events: %d\n", len(events))
	if len(events) == 0 {
		return fmt.Errorf("no scorable events in feed")
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		printDryRunStats(len(parsed), events)
		return nil
	}

	scoringCfg := scoringConfig(cmd, feedCfg.CacheDir)

	backend, err := provider.New(scoringCfg.Provider, scoringCfg.Model, scoringCfg.APIKey, &http.Client{
		Timeout: durationSetting(cmd, "", "scoring.timeout", defaultScoreTimeout),
	})
	if err != nil {
		return err
	}

	cache := score.NewCache(scoringCfg.CacheDir)
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		// Bypass lookup and store without touching persisted entries.
		cache = nil
	}

	fmt.Println("Scoring events...")
	scored, summary, err := score.ScoreAll(ctx, backend, events, prof, cache, scoringCfg, os.Stdout)
	if err != nil {
		return err
	}

	// Write applies the floor after cache hits and fresh scores merge,
	// so a different --min-score never invalidates cached work.
	reportCfg := types.ReportConfig{
		OutputPath: stringSetting(cmd, "output", "report.output", ""),
		MinScore:   intSetting(cmd, "min-score", "report.min_score", 0),
	}

	fmt.Println("Generating report...")
	meta := report.Meta{
		Provider:    fmt.Sprintf("%s (%s)", backend.Name(), backend.Model()),
		RunID:       runID,
		GeneratedAt: time.Now(),
	}
	outputPath, err := report.Write(reportCfg, scored, prof, meta)
	if err != nil {
		return err
	}
	fmt.Printf("  Report saved to: %s\n", outputPath)

	printSummary(scored)

	if summary.HasFailures() {
		return fmt.Errorf("%d batch(es) failed scoring; affected events are marked unscored", summary.FailedBatches)
	}
	return nil
}

// scoringConfig resolves scoring settings from flags, config, and
// defaults. The API key resolution order is --api-key, then the
// provider's .secrets/ file, then its environment variable. An unset
// scoring.max_retries resolves to -1 so ScoreAll applies its default;
// an explicit 0 in the config means no retries.
func scoringConfig(cmd *cobra.Command, cacheDir string) types.ScoringConfig {
	providerName := stringSetting(cmd, "provider", "scoring.provider", "claude")
	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey := secretDefault(provider.SecretName(providerName), apiKeyFlag)
	if apiKey == "" {
		apiKey = os.Getenv(provider.EnvVar(providerName))
	}

	return types.ScoringConfig{
		AIConfig: types.AIConfig{
			Model:      stringSetting(cmd, "model", "scoring.model", ""),
			APIKey:     apiKey,
			MaxRetries: intSetting(cmd, "", "scoring.max_retries", -1),
		},
		Provider:    providerName,
		BatchSize:   intSetting(cmd, "batch-size", "scoring.batch_size", 0),
		CacheDir:    cacheDir,
		Concurrency: intSetting(cmd, "concurrency", "scoring.concurrency", 1),
	}
}

// feedConfig resolves feed settings from flags, config, and defaults.
func feedConfig(cmd *cobra.Command) types.FeedConfig {
	return types.FeedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationSetting(cmd, "", "feed.timeout", defaultFeedTimeout),
			UserAgent: defaultUserAgent,
		},
		URL:      stringSetting(cmd, "ics-url", "feed.url", feed.DefaultURL),
		CacheDir: stringSetting(cmd, "", "feed.cache_dir", defaultCacheDir),
		MaxAge:   durationSetting(cmd, "", "feed.max_age", feed.DefaultMaxAge),
	}
}

// fetchWithStaleFallback fetches the feed and, when the download fails
// but a stale cached copy exists, logs a warning and uses the stale
// copy. This fallback is a deliberate policy of the score command;
// `fetch --refresh` surfaces the error instead.
func fetchWithStaleFallback(ctx context.Context, lg *logging.Logger, cfg types.FeedConfig, forceRefresh bool) ([]byte, bool, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	data, fromCache, err := feed.Fetch(ctx, client, cfg, forceRefresh)
	if err == nil {
		return data, fromCache, nil
	}

	stale, readErr := feed.ReadCached(cfg)
	if readErr != nil {
		return nil, false, err
	}
	lg.Warn("feed download failed, falling back to stale cache",
		"error", err, "cache", feed.CachePath(cfg))
	return stale, true, nil
}

func printDryRunStats(totalParsed int, events []types.Event) {
	fmt.Println("\n--- Dry Run Stats ---")
	fmt.Printf("Total events:    %d\n", totalParsed)
	fmt.Printf("Scorable events: %d\n", len(events))
	fmt.Printf("Filtered out:    %d\n", totalParsed-len(events))

	days := make(map[string]int)
	var dayKeys []string
	for _, ev := range events {
		if days[ev.Day()] == 0 {
			dayKeys = append(dayKeys, ev.Day())
		}
		days[ev.Day()]++
	}
	sort.Strings(dayKeys)
	fmt.Println("\nEvents by day:")
	for _, day := range dayKeys {
		fmt.Printf("  %s: %d\n", day, days[day])
	}

	cats := make(map[string]int)
	for _, ev := range events {
		for _, c := range ev.Categories {
			cats[c]++
		}
	}
	if len(cats) > 0 {
		type catCount struct {
			name  string
			count int
		}
		counts := make([]catCount, 0, len(cats))
		for name, n := range cats {
			counts = append(counts, catCount{name, n})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].name < counts[j].name
		})
		if len(counts) > 15 {
			counts = counts[:15]
		}
		fmt.Println("\nTop categories:")
		for _, cc := range counts {
			fmt.Printf("  %s: %d\n", cc.name, cc.count)
		}
	}

	minDur, maxDur, sumDur := 0, 0, 0
	for i, ev := range events {
		d := ev.DurationMinutes()
		if i == 0 || d < minDur {
			minDur = d
		}
		if d > maxDur {
			maxDur = d
		}
		sumDur += d
	}
	fmt.Printf("\nDuration range: %d-%d min\n", minDur, maxDur)
	fmt.Printf("Average duration: %d min\n", sumDur/len(events))
}

func printSummary(scored []types.ScoredEvent) {
	var must, rec, consider, low, unscored, sum int
	for _, se := range scored {
		total := se.Score.Total()
		sum += total
		switch {
		case !se.Score.Scored:
			unscored++
		case total >= types.MustAttendMin:
			must++
		case total >= types.RecommendedMin:
			rec++
		case total >= types.ConsiderMin:
			consider++
		default:
			low++
		}
	}

	fmt.Println("\n--- Scoring Summary ---")
	fmt.Printf("Must-Attend (85+):   %d\n", must)
	fmt.Printf("Recommended (70-84): %d\n", rec)
	fmt.Printf("Consider (50-69):    %d\n", consider)
	fmt.Printf("Low Priority (<50):  %d\n", low)
	if unscored > 0 {
		fmt.Printf("Unscored:            %d\n", unscored)
	}
	if len(scored) > 0 {
		fmt.Printf("Average Score: %d\n", sum/len(scored))
	}

	// ScoreAll returns events sorted by total descending.
	if len(scored) > 0 && scored[0].Score.Total() > 0 {
		fmt.Println("\nTop sessions:")
		top := scored
		if len(top) > 5 {
			top = top[:5]
		}
		for _, se := range top {
			fmt.Printf("  [%d] %s\n", se.Score.Total(), se.Event.Summary)
		}
	}
}
