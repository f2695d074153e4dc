// EconPulse — Daily Economic News Sentiment Tracker
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seenimoa/econpulse/api"
	"github.com/seenimoa/econpulse/internal/classify"
	"github.com/seenimoa/econpulse/internal/config"
	"github.com/seenimoa/econpulse/internal/logger"
	"github.com/seenimoa/econpulse/internal/pipeline"
	"github.com/seenimoa/econpulse/pkg/dateutil"
	"github.com/seenimoa/econpulse/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, populated by PersistentPreRunE.
var (
	cfg *config.Config
	log *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "econpulse",
	Short: "EconPulse — Daily Economic News Sentiment Tracker",
	Long: `EconPulse scrapes today's economic headlines from CNBC, Reuters and
Business Standard, scores each title through a sentiment model, folds
the scores into one daily value, and maintains the historical series
with its running cumulative total.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		log = logger.New(level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("EconPulse %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily sentiment pipeline once",
	Long: `Collect today's headlines from every source, score them through the
sentiment service, and land the day's mean value in the stored series.
Running twice on the same day refines today's value in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := pipeline.FromConfig(cfg, log)
		if err != nil {
			return err
		}

		result, err := pipe.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("📰 EconPulse run %s — %s\n", result.RunID, dateutil.DayKey(result.Date))
		if !result.NewsFound {
			fmt.Println("   No news published today; series unchanged.")
			return nil
		}

		fmt.Printf("   Headlines scored: %d\n", len(result.Items))
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			for _, it := range result.Items {
				fmt.Printf("     [%+d] %-18s %s\n", it.Points, it.Source, it.Title)
			}
		}
		fmt.Printf("   Daily sentiment:  %+.4f\n", result.DailyValue)
		fmt.Printf("   Series action:    %s (now %d days)\n", result.Action, result.Series.Len())
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("verbose", false, "print every scored headline")
}

// --- History Command ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the stored daily series and its cumulative view",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := pipeline.FromConfig(cfg, log)
		if err != nil {
			return err
		}

		series, cum, err := pipe.History(cmd.Context())
		if err != nil {
			return err
		}
		if series.Len() == 0 {
			fmt.Println("No history stored yet. Run `econpulse run` first.")
			return nil
		}

		fmt.Println("  Date          Daily     Cumulative")
		fmt.Println("  ──────────────────────────────────")
		for i := range series.Dates {
			fmt.Printf("  %s   %+7.4f   %+9.4f\n",
				dateutil.DayKey(series.Dates[i]), series.Points[i], cum.Totals[i])
		}
		return nil
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show today's collected headlines without scoring or persisting",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := pipeline.FromConfig(cfg, log)
		if err != nil {
			return err
		}

		items := pipe.CollectToday(cmd.Context())
		if len(items) == 0 {
			fmt.Println("No news published today.")
			return nil
		}

		fmt.Printf("📰 %d headlines published today\n", len(items))
		var current models.SourceID
		for _, it := range items {
			if it.Source != current {
				current = it.Source
				fmt.Printf("\n  %s\n", current)
			}
			fmt.Printf("    • %s  (%s)\n", it.Title, it.RawDate)
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := pipeline.FromConfig(cfg, log)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting EconPulse API server on %s\n", addr)

		srv := api.NewServer(cfg, pipe, log)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  EconPulse — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  Timezone:    %s\n", dateutil.Location(cfg.Timezone))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Classifier:  %s\n", cfg.Classifier.URL)
		fmt.Printf("    Store:       %s (%s)\n", cfg.Store.Driver, cfg.Store.Address)
		fmt.Printf("    API Server:  %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  Connectivity:")
		pipe, err := pipeline.FromConfig(cfg, log)
		if err != nil {
			return err
		}
		if err := pipe.Store().Ping(cmd.Context()); err != nil {
			fmt.Printf("    Store:       ❌ %v\n", err)
		} else {
			fmt.Println("    Store:       ✅ reachable")
		}
		if cls, err := classify.NewClient(cfg.Classifier.URL); err != nil {
			fmt.Printf("    Classifier:  ❌ %v\n", err)
		} else if err := cls.Ping(cmd.Context()); err != nil {
			fmt.Printf("    Classifier:  ❌ %v\n", err)
		} else {
			fmt.Println("    Classifier:  ✅ reachable")
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
