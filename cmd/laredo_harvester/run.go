package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/laredo-harvester/internal/config"
	"github.com/jonathan/laredo-harvester/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full harvest across all jurisdictions",
	Long: `Logs in, walks the jurisdiction list, runs one search per jurisdiction (two for rescrape-flagged indices), and writes per-jurisdiction plus combined JSON output.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values. Credentials come from LAREDO_USERNAME and LAREDO_PASSWORD (a .env file is honored).`,
	RunE: runHarvestCmd,
}

var (
	runConfigPath      string
	runOutDir          string
	runHeadless        bool
	runWaitSeconds     int
	runMaxParties      int
	runDayOffset       int
	runRescrapeIndices []int
	runCounties        []string
	runHardTimeout     int
	runVerbose         bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runOutDir, "out", "o", "", "Output directory for JSON artifacts")
	runCommand.Flags().BoolVar(&runHeadless, "headless", false, "Run Chrome in headless mode")
	runCommand.Flags().IntVar(&runWaitSeconds, "wait", 0, "Wait seconds for UI elements (per attempt)")
	runCommand.Flags().IntVar(&runMaxParties, "max-parties", 0, "How many Party columns to expose (Party1..N)")
	runCommand.Flags().IntVar(&runDayOffset, "day-offset", 0, "Search start date is today minus this many days")
	runCommand.Flags().IntSliceVar(&runRescrapeIndices, "rescrape-indices", nil, "Jurisdiction indices to scrape twice")
	runCommand.Flags().StringSliceVar(&runCounties, "counties", nil, "Optional allow-list of jurisdiction names")
	runCommand.Flags().IntVar(&runHardTimeout, "hard-timeout", 0, "Wall-clock budget in seconds; 0 disables")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	initSlog(runVerbose)

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("out") {
		cfg.OutDir = runOutDir
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = runHeadless
	}
	if cmd.Flags().Changed("wait") {
		cfg.WaitSeconds = runWaitSeconds
	}
	if cmd.Flags().Changed("max-parties") {
		cfg.MaxParties = runMaxParties
	}
	if cmd.Flags().Changed("day-offset") {
		cfg.DayOffset = runDayOffset
	}
	if cmd.Flags().Changed("rescrape-indices") {
		cfg.RescrapeIndices = runRescrapeIndices
	}
	if cmd.Flags().Changed("counties") {
		cfg.Counties = runCounties
	}
	if cmd.Flags().Changed("hard-timeout") {
		cfg.HardTimeoutSeconds = runHardTimeout
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		OutDir:          "files",
		WaitSeconds:     12,
		MaxParties:      6,
		DayOffset:       6,
		RescrapeIndices: []int{1, 2},
	})

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 4: Credentials come from the environment only
	username := os.Getenv("LAREDO_USERNAME")
	password := os.Getenv("LAREDO_PASSWORD")
	if username == "" || password == "" {
		return fmt.Errorf("set LAREDO_USERNAME and LAREDO_PASSWORD (in the environment or a .env file)")
	}

	return pipeline.Run(ctx, pipeline.Options{
		Username:        username,
		Password:        password,
		OutDir:          cfg.OutDir,
		Headless:        cfg.Headless,
		WaitSeconds:     cfg.WaitSeconds,
		MaxParties:      cfg.MaxParties,
		DayOffset:       cfg.DayOffset,
		RescrapeIndices: cfg.RescrapeIndices,
		Counties:        cfg.Counties,
		HardTimeout:     time.Duration(cfg.HardTimeoutSeconds) * time.Second,
		FlowLogPath:     "laredo-flow-logs.json",
		ErrorLogPath:    "laredo.logs",
	})
}
