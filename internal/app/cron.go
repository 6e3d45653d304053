package app

import (
	"context"
	"time"

	"github.com/mx-space/guestbook/internal/config"
	"github.com/mx-space/guestbook/internal/modules/guestbook/visit"
	"github.com/mx-space/guestbook/internal/pkg/clock"
	pkgcron "github.com/mx-space/guestbook/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pruneInterval = time.Hour

// registerCronJobs registers the background jobs enabled by cfg.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, cfg *config.AppConfig, clk clock.Clock, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	if after := cfg.Guestbook.Retention.AnonymousAfter; after > 0 {
		sched.Register(pruneAnonymousJob(visit.NewGormStore(db), after, clk, cronLogger))
	}
}

// pruneAnonymousJob deletes anonymous visits whose last activity is more than
// after behind clk.
func pruneAnonymousJob(store *visit.GormStore, after time.Duration, clk clock.Clock, logger *zap.Logger) pkgcron.Job {
	return pkgcron.Job{
		Name:        "prune_anonymous_visits",
		Description: "delete anonymous visits older than " + after.String(),
		Interval:    pruneInterval,
		Fn: func(ctx context.Context) error {
			cutoff := clk.Now().Add(-after).UnixMilli()
			n, err := store.PruneAnonymous(ctx, cutoff)
			if err != nil {
				return err
			}
			logger.Info("pruned anonymous visits", zap.Int64("rows", n))
			return nil
		},
	}
}
