package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"sanguo/internal/app"
	"sanguo/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
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
	cliApp := &cli.App{
		Name:  "admin",
		Usage: "operator tools for player state",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "player",
				Required: true,
			},
		},
		Commands: []*cli.Command{
			commandSetCurrency(),
			commandGrantGeneral(),
			commandGrantEquipment(),
			commandRemoveGeneral(),
			commandRemoveEquipment(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newServicePlayer() (*services.ServicePlayer, error) {
	vs, err := env.EnvsRequired(
		"DB_DSN",
	)
	if err != nil {
		return nil, err
	}

	return do.Invoke[*services.ServicePlayer](app.NewContainer(vs))
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func commandSetCurrency() *cli.Command {
	return &cli.Command{
		Name: "set-currency",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "gold", Required: true},
			&cli.IntFlag{Name: "tokens", Required: true},
		},
		Action: func(c *cli.Context) error {
			servicePlayer, err := newServicePlayer()
			if err != nil {
				return err
			}

			ctx := context.Background()
			playerID := c.Int64("player")
			if err := servicePlayer.SetCurrency(ctx, playerID, c.Int("gold"), c.Int("tokens")); err != nil {
				return err
			}

			player, err := servicePlayer.GetPlayer(ctx, playerID)
			if err != nil {
				return err
			}
			return printJSON(player)
		},
	}
}

func commandGrantGeneral() *cli.Command {
	return &cli.Command{
		Name:  "grant-general",
		Flags: []cli.Flag{&cli.Int64Flag{Name: "general", Required: true}},
		Action: func(c *cli.Context) error {
			servicePlayer, err := newServicePlayer()
			if err != nil {
				return err
			}

			owned, err := servicePlayer.GrantGeneral(context.Background(), c.Int64("player"), c.Int64("general"))
			if err != nil {
				return err
			}
			return printJSON(owned)
		},
	}
}

func commandGrantEquipment() *cli.Command {
	return &cli.Command{
		Name:  "grant-equipment",
		Flags: []cli.Flag{&cli.Int64Flag{Name: "equipment", Required: true}},
		Action: func(c *cli.Context) error {
			servicePlayer, err := newServicePlayer()
			if err != nil {
				return err
			}

			owned, err := servicePlayer.GrantEquipment(context.Background(), c.Int64("player"), c.Int64("equipment"))
			if err != nil {
				return err
			}
			return printJSON(owned)
		},
	}
}

func commandRemoveGeneral() *cli.Command {
	return &cli.Command{
		Name:  "remove-general",
		Usage: "remove an owned general, its equipment returns to the inventory",
		Flags: []cli.Flag{&cli.Int64Flag{Name: "owned", Required: true}},
		Action: func(c *cli.Context) error {
			servicePlayer, err := newServicePlayer()
			if err != nil {
				return err
			}
			return servicePlayer.RemoveGeneral(context.Background(), c.Int64("player"), c.Int64("owned"))
		},
	}
}

func commandRemoveEquipment() *cli.Command {
	return &cli.Command{
		Name:  "remove-equipment",
		Flags: []cli.Flag{&cli.Int64Flag{Name: "owned", Required: true}},
		Action: func(c *cli.Context) error {
			servicePlayer, err := newServicePlayer()
			if err != nil {
				return err
			}
			return servicePlayer.RemoveEquipment(context.Background(), c.Int64("player"), c.Int64("owned"))
		},
	}
}
