package main

import (
	"context"
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
		Name: "leaderboard",
		Commands: []*cli.Command{
			commandRefresh(),
			commandScores(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLeaderboard() (*services.ServiceLeaderboard, error) {
	vs, err := env.EnvsRequired(
		"DB_DSN",
	)
	if err != nil {
		return nil, err
	}

	return do.Invoke[*services.ServiceLeaderboard](app.NewContainer(vs))
}

func commandRefresh() *cli.Command {
	return &cli.Command{
		Name:        "refresh",
		Description: "Recompute the power leaderboard now",
		Action: func(c *cli.Context) error {
			serviceLeaderboard, err := newLeaderboard()
			if err != nil {
				return err
			}
			return serviceLeaderboard.Refresh(context.Background())
		},
	}
}

func commandScores() *cli.Command {
	return &cli.Command{
		Name:        "scores",
		Description: "Print team power of every player without touching redis",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Value: 20,
			},
		},
		Action: func(c *cli.Context) error {
			serviceLeaderboard, err := newLeaderboard()
			if err != nil {
				return err
			}

			items, err := serviceLeaderboard.Scores(context.Background())
			if err != nil {
				return err
			}
			for i, item := range items {
				if i >= c.Int("top") {
					break
				}
				fmt.Printf("%d\t%d\t%s\t%.0f\n", item.Rank, item.PlayerID, item.Name, item.Score)
			}
			return nil
		},
	}
}
