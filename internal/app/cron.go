package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/techpress/core/internal/modules/analytics"
	"github.com/techpress/core/internal/modules/ingest"
	pkgcron "github.com/techpress/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs(ingestSvc *ingest.Service, analyticsSvc *analytics.Service) {
	cronLogger := a.logger.Named("CronService")

	if strings.TrimSpace(a.cfg.Ingest.FeedURL) != "" {
		a.sched.Register(pkgcron.Job{
			Name:        "ingest_feed",
			Description: "Pull the configured RSS feed and publish new items",
			Interval:    time.Hour,
			Fn: func(ctx context.Context) error {
				report, err := ingestSvc.Run(ctx)
				if err != nil {
					cronLogger.Warn("feed ingestion failed", zap.Error(err))
					return err
				}
				cronLogger.Info(fmt.Sprintf("feed ingestion done, %d fetched, %d added, %d skipped",
					report.Fetched, report.Added, report.Skipped))
				return nil
			},
		})
	}

	a.sched.Register(pkgcron.Job{
		Name:        "cleanup_analytics",
		Description: "Delete analytics events past the retention window",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			if err := analyticsSvc.Cleanup(); err != nil {
				cronLogger.Warn("analytics cleanup failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
