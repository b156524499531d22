package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/welldone-cloud/aws-list-resources/config"
)

var (
	version = "0.3.0"

	flagRegions      string
	flagIncludeTypes string
	flagExcludeTypes string
	flagOnlyCounts   bool
	flagProfile      string
	flagRegionConc   int
	flagTypeConc     int
	flagTypeCache    string
	flagResultsDir   string
	flagConfigFile   string
	flagDebug        bool

	rootCmd = &cobra.Command{
		Use:   "aws-list-resources",
		Short: "List all resources in an AWS account across regions",
		Long: `aws-list-resources discovers the resources that exist in an AWS account.

It asks the CloudFormation registry which resource types each region
supports, lists every instance of them through the Cloud Control API, drops
well-known account defaults and writes a JSON report per run. Denied and
failed listings are recorded alongside the results instead of aborting the
run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagRegions, "regions", "", "comma-separated target AWS regions, or 'ALL' for every enabled region (required unless set in the config file)")
	f.StringVar(&flagIncludeTypes, "include-resource-types", "", "only list the given comma-separated resource types (supports wildcards)")
	f.StringVar(&flagExcludeTypes, "exclude-resource-types", "", "do not list the given comma-separated resource types (supports wildcards)")
	f.BoolVar(&flagOnlyCounts, "only-show-counts", false, "record resource counts instead of identifier lists")
	f.StringVar(&flagProfile, "profile", "", "named AWS profile to use")
	f.IntVar(&flagRegionConc, "region-concurrency", 0, "regions discovered in parallel")
	f.IntVar(&flagTypeConc, "type-concurrency", 0, "resource types listed in parallel per region")
	f.StringVar(&flagTypeCache, "type-cache", "", "cache file for per-region resource type catalogs")
	f.StringVar(&flagResultsDir, "results-dir", "", "directory the result file is written to")
	f.StringVar(&flagConfigFile, "config", "", "optional YAML config file; flags take precedence")
	f.BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// buildConfig merges the optional config file with the command line. Flags
// that were set win over file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if flagConfigFile != "" {
		loaded, err := config.Load(flagConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("regions") {
		cfg.Regions = splitList(flagRegions)
	}
	if flags.Changed("include-resource-types") {
		cfg.IncludeResourceTypes = splitList(flagIncludeTypes)
	}
	if flags.Changed("exclude-resource-types") {
		cfg.ExcludeResourceTypes = splitList(flagExcludeTypes)
	}
	if flags.Changed("only-show-counts") {
		cfg.OnlyShowCounts = flagOnlyCounts
	}
	if flags.Changed("profile") {
		cfg.Profile = flagProfile
	}
	if flags.Changed("region-concurrency") {
		cfg.RegionConcurrency = flagRegionConc
	}
	if flags.Changed("type-concurrency") {
		cfg.TypeConcurrency = flagTypeConc
	}
	if flags.Changed("type-cache") {
		cfg.TypeCachePath = flagTypeCache
	}
	if flags.Changed("results-dir") {
		cfg.ResultsDir = flagResultsDir
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func logLevel() zerolog.Level {
	if flagDebug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
