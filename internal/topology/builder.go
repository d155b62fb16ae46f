// Package topology generates a synthetic CDP topology and hands it to a
// storage.Persister in dependency order: nodes, then elements, then links.
package topology

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/martinsuchenak/topogen/internal/log"
	"github.com/martinsuchenak/topogen/internal/pairgen"
	"github.com/martinsuchenak/topogen/internal/storage"
)

// Result summarizes a generation run
type Result struct {
	RunID    string        `json:"run_id"`
	Nodes    int           `json:"nodes"`
	Elements int           `json:"elements"`
	Links    int           `json:"links"`
	LinkRows int           `json:"link_rows"`
	Duration time.Duration `json:"duration"`
}

// Builder drives one generation run
type Builder struct {
	settings Settings
	store    storage.Persister
	rng      pairgen.Source
	factory  *Factory
	runID    string
}

// Option customizes a Builder
type Option func(*Builder)

// WithSource replaces the seeded random source
func WithSource(rng pairgen.Source) Option {
	return func(b *Builder) { b.rng = rng }
}

// WithClock sets the clock used for poll times
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.factory = NewFactory(now) }
}

// WithRunID overrides the generated run id
func WithRunID(id string) Option {
	return func(b *Builder) { b.runID = id }
}

// NewBuilder resolves settings and prepares a run. The random source defaults
// to a PCG seeded with settings.Seed, or DefaultSeed when that is zero.
func NewBuilder(settings Settings, store storage.Persister, opts ...Option) *Builder {
	settings = settings.Resolve()
	seed := settings.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	b := &Builder{
		settings: settings,
		store:    store,
		rng:      rand.New(rand.NewPCG(seed, seed)),
		factory:  NewFactory(time.Now),
		runID:    uuid.New().String(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Settings returns the resolved settings
func (b *Builder) Settings() Settings {
	return b.settings
}

// RunID identifies this run in logs and metrics
func (b *Builder) RunID() string {
	return b.runID
}

// Generate validates the settings, then builds and persists the topology.
// Nothing is written when validation fails.
func (b *Builder) Generate(ctx context.Context) (*Result, error) {
	if err := b.settings.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := log.With("run_id", b.runID)
	logger.Info("Generating topology",
		"topology", b.settings.Topology,
		"nodes", b.settings.Nodes,
		"elements", b.settings.Elements,
		"links", b.settings.Links)

	nodes := b.factory.Nodes(b.settings.Nodes)
	if err := b.store.PersistNodes(ctx, nodes); err != nil {
		return nil, fmt.Errorf("persisting nodes: %w", err)
	}
	logger.Info("Nodes persisted", "count", len(nodes))

	elements := b.factory.Elements(nodes, b.settings.Elements)
	if err := b.store.PersistElements(ctx, elements); err != nil {
		return nil, fmt.Errorf("persisting elements: %w", err)
	}
	logger.Info("Elements persisted", "count", len(elements))

	pairs, err := pairgen.New(elements, b.rng)
	if err != nil {
		return nil, fmt.Errorf("pairing elements: %w", err)
	}

	links := b.factory.Links(pairs, b.settings.Links)
	if err := b.store.PersistLinks(ctx, links); err != nil {
		return nil, fmt.Errorf("persisting links: %w", err)
	}
	logger.Info("Links persisted", "count", len(links), "rows", 2*len(links))

	res := &Result{
		RunID:    b.runID,
		Nodes:    len(nodes),
		Elements: len(elements),
		Links:    len(links),
		LinkRows: 2 * len(links),
		Duration: time.Since(start),
	}
	logger.Info("Topology generated", "duration", res.Duration)
	return res, nil
}

// Teardown removes previously generated rows
func (b *Builder) Teardown(ctx context.Context) error {
	log.Info("Deleting generated topology", "run_id", b.runID)
	if err := b.store.DeleteTopology(ctx); err != nil {
		return fmt.Errorf("deleting topology: %w", err)
	}
	return nil
}
