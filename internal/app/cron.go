package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/techplay/core/internal/config"
	pkgcron "github.com/techplay/core/internal/pkg/cron"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, svc *services, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "sync_leaderboard",
		Description: "Full resync of user XP scores into the redis leaderboard",
		Interval:    cfg.Gamification.LeaderboardSyncInterval.Duration,
		Fn: func(ctx context.Context) error {
			if err := svc.leaderboard.Sync(ctx); err != nil {
				cronLogger.Warn("leaderboard sync failed", zap.Error(err))
				return err
			}
			cronLogger.Info("leaderboard synced")
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "rebuild_article_cache",
		Description: "Safety-net rebuild of the cached latest/popular article lists",
		Interval:    cfg.Cache.RebuildInterval.Duration,
		Fn: func(ctx context.Context) error {
			if err := svc.cache.RefreshAll(ctx); err != nil {
				cronLogger.Warn("article cache rebuild failed", zap.Error(err))
				return err
			}
			cronLogger.Info("article cache rebuilt")
			return nil
		},
	})
}
