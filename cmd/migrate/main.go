package main

import (
	"context"
	"log"
	"os"

	"sanguo/internal/app"
	"sanguo/internal/config"
	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	vs, err := env.EnvsRequired(
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	container := app.NewContainer(vs)

	cliApp := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(container),
			commandSeed(container),
			commandConfig(container),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create tables and indexes",
		Action: func(c *cli.Context) error {
			db, err := do.Invoke[*bun.DB](container)
			if err != nil {
				return err
			}

			if err := datastore.Migrate(context.Background(), db); err != nil {
				return err
			}
			log.Println("migrated")
			return nil
		},
	}
}

func commandSeed(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "upsert generals, equipment and campaigns",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "catalog yaml, the built-in one when empty",
			},
		},
		Action: func(c *cli.Context) error {
			rules, err := do.Invoke[engine.Rules](container)
			if err != nil {
				return err
			}

			catalog, err := config.LoadCatalog(c.String("catalog"))
			if err != nil {
				return err
			}
			if err := config.ValidateCatalog(catalog, rules); err != nil {
				return err
			}

			serviceCatalog, err := do.Invoke[*services.ServiceCatalog](container)
			if err != nil {
				return err
			}
			return serviceCatalog.Seed(context.Background(), catalog)
		},
	}
}

func commandConfig(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "set a runtime config value",
		ArgsUsage: "<key> <value>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: config <key> <value>", 1)
			}

			serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
			if err != nil {
				return err
			}

			key, value := c.Args().Get(0), c.Args().Get(1)
			if err := serviceConfig.SetConfig(context.Background(), key, value); err != nil {
				return err
			}
			log.Printf("config %s = %s\n", key, value)
			return nil
		},
	}
}
