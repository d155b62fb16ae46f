package topo

import (
	"context"
	"fmt"

	"github.com/paularlott/cli"

	"github.com/martinsuchenak/topogen/internal/config"
	"github.com/martinsuchenak/topogen/internal/log"
	"github.com/martinsuchenak/topogen/internal/metrics"
	"github.com/martinsuchenak/topogen/internal/storage"
	"github.com/martinsuchenak/topogen/internal/topology"
)

// Commands returns the generate and delete commands
func Commands() []*cli.Command {
	return []*cli.Command{
		GenerateCommand(),
		DeleteCommand(),
	}
}

// GenerateCommand builds a topology and loads it into the store
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:        "generate",
		Usage:       "Generate a CDP topology",
		Description: "Generate nodes, CDP elements and mirrored CDP links and bulk-load them into the database",
		Flags:       config.GetGenerateFlags(),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.FromCommand(cmd, true)
			if err != nil {
				return err
			}
			return Generate(ctx, cfg)
		},
	}
}

// DeleteCommand removes a previously generated topology
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:        "delete",
		Usage:       "Delete the generated topology",
		Description: "Delete every generated node, element and link above the watermark",
		Flags:       config.GetFlags(),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			return Delete(ctx, cfg)
		},
	}
}

func openStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*storage.SQLStore, error) {
	opts := cfg.StorageOptions()
	opts.Metrics = m

	store, err := storage.Open(ctx, cfg.Driver, cfg.DataSource(), opts)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Driver, err)
	}
	log.Info("Storage initialized", "driver", cfg.Driver, "batch_size", opts.BatchSize)
	return store, nil
}

// Generate runs one generation against the configured store
func Generate(ctx context.Context, cfg *config.Config) error {
	log.Info("Configuration loaded", "source", cfg.String(), "driver", cfg.Driver)

	// Reject bad counts before touching the database.
	builder := topology.NewBuilder(cfg.Settings(), nil)
	if err := builder.Settings().Validate(); err != nil {
		return err
	}

	m := metrics.New()
	store, err := openStore(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer store.Close()

	builder = topology.NewBuilder(cfg.Settings(), store, topology.WithRunID(builder.RunID()))

	if cfg.DeleteExisting {
		if err := builder.Teardown(ctx); err != nil {
			return err
		}
	}

	res, err := builder.Generate(ctx)
	if err != nil {
		return err
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	log.Info("Store totals", "nodes", counts.Nodes, "elements", counts.Elements, "links", counts.Links)

	if err := m.Push(cfg.Pushgateway, "topogen", res.RunID); err != nil {
		log.Warn("Failed to push metrics", "error", err)
	}
	return nil
}

// Delete removes the generated topology from the configured store
func Delete(ctx context.Context, cfg *config.Config) error {
	m := metrics.New()
	store, err := openStore(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer store.Close()

	builder := topology.NewBuilder(cfg.Settings(), store)
	if err := builder.Teardown(ctx); err != nil {
		return err
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	log.Info("Topology deleted", "nodes_left", counts.Nodes, "elements_left", counts.Elements, "links_left", counts.Links)

	if err := m.Push(cfg.Pushgateway, "topogen", builder.RunID()); err != nil {
		log.Warn("Failed to push metrics", "error", err)
	}
	return nil
}
