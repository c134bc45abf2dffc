package main

import (
	"context"
	"time"

	"sanguo/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"go.uber.org/zap"
)

const leaderboardJobTimeout = 5 * time.Minute

type LeaderboardJob struct {
	leaderboard *services.ServiceLeaderboard
	config      *services.ServiceConfig
	logger      *zap.Logger
}

func NewLeaderboardJob(container *do.Injector) (*LeaderboardJob, error) {
	leaderboard, err := do.Invoke[*services.ServiceLeaderboard](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &LeaderboardJob{leaderboard, config, logger.Named("cron")}, nil
}

// Start schedules the refresh from the config table and runs it once right
// away so the board is never empty after a deploy.
func (j *LeaderboardJob) Start(cronRunner *cron.Cron) error {
	schedule, err := j.config.GetStringConfig(context.Background(), services.CONFIG_LEADERBOARD_SCHEDULE, services.LEADERBOARD_DEFAULT_SCHEDULE)
	if err != nil {
		return err
	}

	if _, err := cronRunner.AddFunc(schedule, j.runScheduledTask); err != nil {
		return err
	}
	j.logger.Info("leaderboard job scheduled", zap.String("schedule", schedule))

	j.runScheduledTask()
	return nil
}

func (j *LeaderboardJob) runScheduledTask() {
	ctx, cancel := context.WithTimeout(context.Background(), leaderboardJobTimeout)
	defer cancel()

	if err := j.leaderboard.Refresh(ctx); err != nil {
		j.logger.Error("leaderboard refresh failed", zap.Error(err))
	}
}
