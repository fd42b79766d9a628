package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/taskboard-backend/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// PurgeSystemLogs deletes system_logs older than retentionDays.
func PurgeSystemLogs(db *gorm.DB, retentionDays int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup schedules a daily purge of old system logs. Stop the returned
// scheduler on shutdown.
func StartCleanup(db *gorm.DB, retentionDays int) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		deleted, err := PurgeSystemLogs(db, retentionDays, time.Now())
		if err != nil {
			slog.Error("log cleanup failed", "error", err, "action", "log_cleanup")
		} else if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted, "action", "log_cleanup")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
