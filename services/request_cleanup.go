package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/utils"
)

// RequestCleaner purges service requests that were completed long ago so
// the table does not grow without bound. Housekeeping only; nothing reads
// completed requests after the retention window.
type RequestCleaner struct {
	DB        *gorm.DB
	Interval  time.Duration
	Retention time.Duration
	StopChan  chan struct{}
}

func NewRequestCleaner(db *gorm.DB, interval, retention time.Duration) *RequestCleaner {
	return &RequestCleaner{
		DB:        db,
		Interval:  interval,
		Retention: retention,
		StopChan:  make(chan struct{}),
	}
}

func (rc *RequestCleaner) Start() {
	go func() {
		ticker := time.NewTicker(rc.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rc.cleanup()
			case <-rc.StopChan:
				return
			}
		}
	}()
}

func (rc *RequestCleaner) Stop() {
	close(rc.StopChan)
}

func (rc *RequestCleaner) cleanup() {
	cutoff := time.Now().Add(-rc.Retention)

	res := rc.DB.Where("status = ? AND completed_at < ?", models.RequestCompleted, cutoff).
		Delete(&models.ServiceRequest{})
	if res.Error != nil {
		utils.ErrorLogger.Printf("Service request cleanup failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Cleanup complete: %d stale service requests deleted", res.RowsAffected)
	}
}
