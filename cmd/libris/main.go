package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/libris/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "libris:", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "libris",
		Usage:   "hybrid relevance search over a personal library catalog",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before the config (ignored if missing)",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "config file path (default: config/<env>.yaml)",
				Sources: cli.EnvVars("LIBRIS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "environment: local, dev, docker, prod",
				Sources: cli.EnvVars("ENV"),
			},
		},
		Before: loadEnvFile,
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			importCommand(),
			indexCommand(),
		},
	}
}
