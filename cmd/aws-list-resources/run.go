package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/welldone-cloud/aws-list-resources/config"
	"github.com/welldone-cloud/aws-list-resources/defaults"
	"github.com/welldone-cloud/aws-list-resources/discover"
	"github.com/welldone-cloud/aws-list-resources/internal/filter"
	"github.com/welldone-cloud/aws-list-resources/results"
	"github.com/welldone-cloud/aws-list-resources/telemetry"
)

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := telemetry.NewConsoleLogger("aws-list-resources")
	logger.Logger = logger.Level(logLevel())

	shutdown := initTelemetry(ctx, logger)
	defer shutdown()

	clients, err := discover.NewClients(ctx, cfg.Profile)
	if err != nil {
		return err
	}

	identity, err := discover.ResolveIdentity(ctx, clients.STS())
	if err != nil {
		return err
	}

	regions, err := discover.ResolveRegions(ctx, clients.EC2(), cfg.Regions)
	if err != nil {
		return err
	}

	var catalog discover.TypeCatalog = discover.NewCatalog(clients)
	if cfg.TypeCachePath != "" {
		cached, err := discover.OpenCachedCatalog(cfg.TypeCachePath, catalog, logger.Logger)
		if err != nil {
			return err
		}
		defer func() { _ = cached.Close() }()
		catalog = cached
	}

	aggregate := results.New(regions, cfg.OnlyShowCounts)
	orchestrator := discover.New(discover.Options{
		Catalog:           catalog,
		Lister:            discover.NewLister(clients),
		TypeFilter:        filter.New(cfg.IncludeResourceTypes, cfg.ExcludeResourceTypes),
		Defaults:          defaults.New(),
		Aggregate:         aggregate,
		RegionConcurrency: cfg.RegionConcurrency,
		TypeConcurrency:   cfg.TypeConcurrency,
		Logger:            logger,
	})

	logger.Info().
		Str("account_id", identity.AccountID).
		Int("regions", len(regions)).
		Msg("analyzing account")

	runTimestamp := time.Now().UTC().Format("20060102150405")
	orchestrator.Run(ctx, regions)

	document := aggregate.Document(results.Metadata{
		AccountID:    identity.AccountID,
		Principal:    identity.Principal,
		Invocation:   strings.Join(os.Args, " "),
		RunTimestamp: runTimestamp,
	})

	outPath, err := writeResultFile(cfg, document, identity.AccountID, runTimestamp)
	if err != nil {
		return err
	}

	logger.Info().Str("path", outPath).Msg("output file written")
	return nil
}

// writeResultFile renders the document and writes it below the results
// directory, named by account and run timestamp.
func writeResultFile(cfg *config.Config, document results.Document, accountID, runTimestamp string) (string, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0o750); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize results: %w", err)
	}

	outPath := filepath.Join(cfg.ResultsDir, fmt.Sprintf("resources_%s_%s.json", accountID, runTimestamp))
	if err := os.WriteFile(outPath, raw, 0o640); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}
	return outPath, nil
}

// initTelemetry enables tracing when an OTLP endpoint is configured.
// Disabled entirely with AWS_LIST_RESOURCES_TELEMETRY_DISABLED=true.
func initTelemetry(ctx context.Context, logger *telemetry.Logger) func() {
	if os.Getenv("AWS_LIST_RESOURCES_TELEMETRY_DISABLED") == "true" {
		return func() {}
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "aws-list-resources",
		ServiceVersion: version,
		Insecure:       true,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry initialization failed, running without it")
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}
}
