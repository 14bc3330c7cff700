package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/segalloc/internal/logger"
	"github.com/joshuapare/segalloc/sizemap"
	"github.com/joshuapare/segalloc/sizemap/source"
)

var (
	// Global flags
	experimentsFlag string
	coldFlag        bool
	overrideFlag    string
	envFlag         bool
	smallPages      bool
	jsonOut         bool
	verbose         bool
	logLevel        string
)

// printer formats byte counts with digit grouping.
var printer = message.NewPrinter(language.English)

var rootCmd = &cobra.Command{
	Use:   "sizemapctl",
	Short: "Inspect and validate allocator size-class tables",
	Long: `sizemapctl builds the size-class map the allocator would use at start-up
and prints its class table, lookups and cold-class set. It also validates
override files before they are deployed.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&experimentsFlag, "experiments", "", "Comma-separated experiment labels to activate")
	rootCmd.PersistentFlags().BoolVar(&coldFlag, "cold", false, "Enable the cold-class classifier")
	rootCmd.PersistentFlags().
		StringVar(&overrideFlag, "override", "", "Size-class override file (.toml, .yaml)")
	rootCmd.PersistentFlags().
		BoolVar(&envFlag, "env", false, "Read overrides and experiments from SEGALLOC_* variables")
	rootCmd.PersistentFlags().BoolVar(&smallPages, "small-pages", false, "Use the 4 KiB page geometry")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "warn", "Diagnostic level: debug, info, warn, error")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging(cmd *cobra.Command, args []string) error {
	return logger.Init(logger.Options{
		Enabled: verbose,
		Writer:  os.Stderr,
		Level:   logger.ParseLevel(logLevel),
	})
}

// selectedGeometry returns the geometry and compiled-in tables picked by the flags.
func selectedGeometry() (sizemap.Geometry, sizemap.Tables) {
	if smallPages {
		return sizemap.SmallPageGeometry(), sizemap.SmallPageTables()
	}
	return sizemap.DefaultGeometry(), sizemap.DefaultTables()
}

// experiments merges --experiments with SEGALLOC_EXPERIMENTS when --env is set.
func experiments() sizemap.ExperimentFunc {
	flagSet := source.Experiments(experimentsFlag)
	if !envFlag {
		return flagSet
	}
	envSet := source.ExperimentsFromEnv("")
	return func(e sizemap.Experiment) bool { return flagSet(e) || envSet(e) }
}

// buildSizeMap builds the map described by the global flags. An override
// file that fails to load is an error; an env override is best effort.
func buildSizeMap() (*sizemap.SizeMap, error) {
	g, tables := selectedGeometry()
	opts := sizemap.Options{
		Geometry:          &g,
		Tables:            &tables,
		Experiments:       experiments(),
		ColdFeatureActive: func() bool { return coldFlag },
		Logger:            logger.L,
	}
	if envFlag {
		opts.Override = source.Env("")
	}

	m, err := sizemap.New(opts)
	if err != nil {
		return nil, err
	}

	if overrideFlag != "" {
		printVerbose("Loading override: %s\n", overrideFlag)
		if !m.TryLoadOverride(source.File(overrideFlag)) {
			return nil, errors.New("override rejected (run with --verbose for details)")
		}
	}
	return m, nil
}

// Helper functions for output

// printInfo prints a message to stdout
func printInfo(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}

// printVerbose prints a message to stderr if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// bytesString renders n with digit grouping.
func bytesString(n int) string {
	return printer.Sprintf("%d", n)
}
