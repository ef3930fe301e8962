package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection. Requests that
// match no route share one path label.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			int64(c.Writer.Size()),
		)
	}
}

// Timer measures a benchmark run
type Timer struct {
	start   time.Time
	metrics *Metrics
	mode    string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, mode string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		mode:    mode,
	}
}

// Stop records the run with its outcome
func (t *Timer) Stop(outcome string) {
	t.metrics.RecordRun(t.mode, outcome, time.Since(t.start))
}
