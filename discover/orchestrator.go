package discover

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/welldone-cloud/aws-list-resources/internal/filter"
	"github.com/welldone-cloud/aws-list-resources/results"
	"github.com/welldone-cloud/aws-list-resources/telemetry"
	"github.com/welldone-cloud/aws-list-resources/types"
)

// DefaultsFilter strips account-default instances from a listed set.
type DefaultsFilter interface {
	Apply(resourceType string, resources []types.Resource) []types.Resource
}

// Orchestrator coordinates discovery: per region it fetches the type
// catalog, narrows it through the type filter, fans listing work out under
// bounded concurrency and folds every outcome into the shared aggregate.
// Best-effort throughout: no single type or region failing ever aborts the
// run.
type Orchestrator struct {
	catalog           TypeCatalog
	lister            InstanceLister
	typeFilter        *filter.TypeFilter
	defaults          DefaultsFilter
	aggregate         *results.Aggregate
	regionConcurrency int
	typeConcurrency   int
	logger            *telemetry.Logger
}

// Options configures an Orchestrator.
type Options struct {
	Catalog    TypeCatalog
	Lister     InstanceLister
	TypeFilter *filter.TypeFilter
	Defaults   DefaultsFilter
	Aggregate  *results.Aggregate

	// Concurrent regions, and concurrent type listings within each region.
	// Both deliberately bounded: unbounded fan-out against the shared
	// backend triggers throttling that costs more than the parallelism
	// buys.
	RegionConcurrency int
	TypeConcurrency   int

	Logger *telemetry.Logger
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.RegionConcurrency < 1 {
		opts.RegionConcurrency = 1
	}
	if opts.TypeConcurrency < 1 {
		opts.TypeConcurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = telemetry.NewLogger("discover")
	}
	return &Orchestrator{
		catalog:           opts.Catalog,
		lister:            opts.Lister,
		typeFilter:        opts.TypeFilter,
		defaults:          opts.Defaults,
		aggregate:         opts.Aggregate,
		regionConcurrency: opts.RegionConcurrency,
		typeConcurrency:   opts.TypeConcurrency,
		logger:            opts.Logger,
	}
}

// Run discovers every requested region and finalizes the aggregate. It
// always completes; per-unit failures end up in the aggregate's logs.
func (o *Orchestrator) Run(ctx context.Context, regions []string) {
	var g errgroup.Group
	g.SetLimit(o.regionConcurrency)
	for _, region := range regions {
		g.Go(func() error {
			o.discoverRegion(ctx, region)
			return nil
		})
	}
	_ = g.Wait()
	o.aggregate.Finalize()
}

func (o *Orchestrator) discoverRegion(ctx context.Context, region string) {
	ctx, span := telemetry.Tracer.Start(ctx, "discover.region",
		trace.WithAttributes(attribute.String("region", region)))
	defer span.End()

	log := o.logger.WithContext(ctx)
	log.Info().Str("region", region).Msg("reading supported resource types")

	catalogCtx, catalogSpan := telemetry.Tracer.Start(ctx, "discover.catalog")
	supported, err := o.catalog.SupportedTypes(catalogCtx, region)
	catalogSpan.End()
	if err != nil {
		o.aggregate.AddError(region, fmt.Sprintf("unable to list resource types: %v", err))
		log.Error().Err(err).Str("region", region).Msg("catalog query failed")
		return
	}

	for _, pattern := range o.typeFilter.Unmatched(supported) {
		o.aggregate.AddError(region, fmt.Sprintf("resource type pattern matched nothing: %s", pattern))
	}

	enabled := o.typeFilter.Apply(supported)
	log.Debug().Str("region", region).
		Int("supported", len(supported)).
		Int("enabled", len(enabled)).
		Msg("resource types filtered")

	var g errgroup.Group
	g.SetLimit(o.typeConcurrency)
	for _, resourceType := range shuffleTypes(enabled) {
		g.Go(func() error {
			o.listType(ctx, region, resourceType)
			return nil
		})
	}
	_ = g.Wait()

	log.Info().Str("region", region).Msg("region discovery complete")
}

func (o *Orchestrator) listType(ctx context.Context, region, resourceType string) {
	log := o.logger.WithContext(ctx)
	log.Debug().Str("region", region).Str("type", resourceType).Msg("listing resources")

	result := o.lister.ListInstances(ctx, region, resourceType)
	switch result.Status {
	case types.ListDenied:
		o.aggregate.AddDenied(region, resourceType)
	case types.ListFailed:
		o.aggregate.AddError(region, fmt.Sprintf("%s: %s", resourceType, result.Message))
	case types.ListOK:
		o.aggregate.AddResources(region, resourceType, o.defaults.Apply(resourceType, result.Resources))
	}
}

// shuffleTypes orders types by identifier hash. Catalog order clusters
// types of the same backend service together; listing them back to back
// hammers one backend while the rest idle. Hashing spreads them, and stays
// deterministic for tests.
func shuffleTypes(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		hi, hj := typeHash(out[i]), typeHash(out[j])
		if hi != hj {
			return hi < hj
		}
		return out[i] < out[j]
	})
	return out
}

func typeHash(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}
