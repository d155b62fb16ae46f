package config

import (
	"github.com/paularlott/cli"
)

// GetFlags returns the storage flags shared by every command
func GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML profile with default settings",
			EnvVars: []string{"TOPOGEN_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "driver",
			Usage:   "Storage driver (sqlite, postgres)",
			EnvVars: []string{"TOPOGEN_DRIVER"},
		},
		&cli.StringFlag{
			Name:    "dsn",
			Usage:   "PostgreSQL connection string",
			EnvVars: []string{"TOPOGEN_DSN"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory holding the SQLite database",
			EnvVars: []string{"TOPOGEN_DATA_DIR"},
		},
		&cli.IntFlag{
			Name:    "batch-size",
			Usage:   "Rows committed per transaction (default 100)",
			EnvVars: []string{"TOPOGEN_BATCH_SIZE"},
		},
		&cli.IntFlag{
			Name:    "watermark",
			Usage:   "Rows owned by node ids at or below this value survive deletion (at least 1, default 5)",
			EnvVars: []string{"TOPOGEN_WATERMARK"},
		},
		&cli.StringFlag{
			Name:    "pushgateway",
			Usage:   "Prometheus Pushgateway URL to push run metrics to",
			EnvVars: []string{"TOPOGEN_PUSHGATEWAY"},
		},
	}
}

// GetGenerateFlags returns the topology size flags
func GetGenerateFlags() []cli.Flag {
	return append(GetFlags(),
		&cli.IntFlag{
			Name:    "nodes",
			Usage:   "Number of nodes to generate (default 2028)",
			EnvVars: []string{"TOPOGEN_NODES"},
		},
		&cli.IntFlag{
			Name:    "elements",
			Usage:   "Number of CDP elements to generate (default: node count)",
			EnvVars: []string{"TOPOGEN_ELEMENTS"},
		},
		&cli.IntFlag{
			Name:    "links",
			Usage:   "Number of CDP links to generate (default: complete graph over the elements)",
			EnvVars: []string{"TOPOGEN_LINKS"},
		},
		&cli.StringFlag{
			Name:    "topology",
			Usage:   "Topology shape (random)",
			EnvVars: []string{"TOPOGEN_TOPOLOGY"},
		},
		&cli.IntFlag{
			Name:    "seed",
			Usage:   "Random seed (default 42)",
			EnvVars: []string{"TOPOGEN_SEED"},
		},
		&cli.BoolFlag{
			Name:    "delete-existing",
			Usage:   "Delete the previously generated topology first",
			EnvVars: []string{"TOPOGEN_DELETE_EXISTING"},
		},
		&cli.BoolFlag{
			Name:    "legacy-link-columns",
			Usage:   "Write the peer device id into cdpcachedeviceport to match legacy fixtures",
			EnvVars: []string{"TOPOGEN_LEGACY_LINK_COLUMNS"},
		},
	)
}

// FromCommand loads the configuration from parsed command flags. Topology
// flags are only read when the command declares them (see GetGenerateFlags).
func FromCommand(cmd *cli.Command, withTopology bool) (*Config, error) {
	opts := &Config{
		Driver:      cmd.GetString("driver"),
		DSN:         cmd.GetString("dsn"),
		DataDir:     cmd.GetString("data-dir"),
		BatchSize:   cmd.GetInt("batch-size"),
		Watermark:   cmd.GetInt("watermark"),
		Pushgateway: cmd.GetString("pushgateway"),
	}

	if withTopology {
		opts.Nodes = cmd.GetInt("nodes")
		opts.Elements = cmd.GetInt("elements")
		opts.Links = cmd.GetInt("links")
		opts.Topology = cmd.GetString("topology")
		opts.DeleteExisting = cmd.GetBool("delete-existing")
		opts.LegacyLinkColumns = cmd.GetBool("legacy-link-columns")
		if seed := cmd.GetInt("seed"); seed > 0 {
			opts.Seed = uint64(seed)
		}
	}

	return Load(opts, cmd.GetString("config"))
}
