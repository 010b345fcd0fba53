package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "manage the book index",
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "create the book index if it does not exist",
				Action: indexCreateAction,
			},
			{
				Name:   "drop",
				Usage:  "drop the book index",
				Action: indexDropAction,
			},
			{
				Name:   "status",
				Usage:  "report whether the book index exists",
				Action: indexStatusAction,
			},
		},
	}
}

func indexCreateAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	created, err := a.index.Ensure(ctx)
	if err != nil {
		return err //nolint:wrapcheck // manager errors name the index
	}
	name := a.index.Definition().Name
	if created {
		return printf(cmd, "index %s created\n", name)
	}
	return printf(cmd, "index %s already exists\n", name)
}

func indexDropAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.index.Drop(ctx); err != nil {
		return err //nolint:wrapcheck // manager errors name the index
	}
	return printf(cmd, "index %s dropped\n", a.index.Definition().Name)
}

func indexStatusAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ok, err := a.index.Exists(ctx)
	if err != nil {
		return err //nolint:wrapcheck // manager errors name the index
	}
	state := "missing"
	if ok {
		state = "ok"
	}
	return printf(cmd, "index %s: %s\n", a.index.Definition().Name, state)
}
