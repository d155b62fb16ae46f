package main

import (
	"context"
	"os"

	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"

	"github.com/martinsuchenak/topogen/cmd/topo"
	"github.com/martinsuchenak/topogen/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists
	env.Load()

	// Initialize structured logging
	log.Configure("info", "auto")

	rootCmd := &cli.Command{
		Name:        "topogen",
		Version:     version,
		Usage:       "Synthetic CDP topology generator",
		Description: "Generates fake nodes, CDP elements and links and bulk-loads them into a database for load testing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (trace, debug, info, warn, error)",
				DefaultValue: "info",
				EnvVars:      []string{"TOPOGEN_LOG_LEVEL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console, json, auto)",
				DefaultValue: "auto",
				EnvVars:      []string{"TOPOGEN_LOG_FORMAT"},
				Global:       true,
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log.Configure(cmd.GetString("log-level"), cmd.GetString("log-format"))
			return ctx, nil
		},
		Commands: topo.Commands(),
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		log.Error("Command execution failed", "error", err, "version", version, "commit", commit, "date", date)
		os.Exit(1)
	}
}
