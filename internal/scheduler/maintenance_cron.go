package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// LimiterIdleTTL is how long a client may stay idle before its rate limit
// bucket is forgotten.
const LimiterIdleTTL = time.Hour

// LimiterCleaner drops per-client state idle for longer than maxIdle.
type LimiterCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// StartMaintenanceJobs schedules periodic housekeeping and starts the cron.
// The caller stops the returned cron on shutdown.
func StartMaintenanceJobs(limiter LimiterCleaner) (*cron.Cron, error) {
	c := cron.New()

	// Rate limiter buckets for clients that went away
	if _, err := c.AddFunc("@hourly", pruneLimiter(limiter)); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func pruneLimiter(limiter LimiterCleaner) func() {
	return func() {
		removed := limiter.Cleanup(LimiterIdleTTL)
		logrus.WithField("removed", removed).Debug("Pruned idle rate limit entries")
	}
}
