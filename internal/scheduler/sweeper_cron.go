package cron

import (
	"context"

	"github.com/campuslink/campuslink/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartSweeperJobs runs the background maintenance jobs: expired stories
// are deactivated hourly and stale notifications are purged daily.
func StartSweeperJobs(postService *services.PostService, notificationService *services.NotificationService) {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := postService.SweepExpiredStories(context.Background()); err != nil {
			logrus.WithError(err).Error("SweepExpiredStories failed")
		}
	})

	c.AddFunc("0 0 * * *", func() {
		if err := notificationService.CleanupExpired(context.Background()); err != nil {
			logrus.WithError(err).Error("CleanupExpired failed")
		}
	})

	c.Start()
}
