package main

import (
	"log"
	"os"

	"sanguo/internal/app"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
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

type CronJob interface {
	Start(cronRunner *cron.Cron) error
}

func main() {
	cliApp := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				"DB_DSN",
				"REDIS_DB",
			)
			if err != nil {
				return err
			}

			container := app.NewContainer(vs)
			//nolint:errcheck
			defer container.Shutdown()

			leaderboardJob, err := NewLeaderboardJob(container)
			if err != nil {
				return err
			}

			cronRunner := cron.New()
			for _, job := range []CronJob{leaderboardJob} {
				if err := job.Start(cronRunner); err != nil {
					return err
				}
			}

			log.Println("Start cronjob")
			cronRunner.Run()
			return nil
		},
	}
}
