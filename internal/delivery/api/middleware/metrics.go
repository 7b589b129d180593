package middleware

import (
	"time"

	"letsshare/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware records request counts and latencies per route.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
	skip    string
	now     func() time.Time
}

// NewMetricsMiddleware creates a metrics middleware. Requests to skipPath,
// usually the scrape endpoint itself, are not recorded.
func NewMetricsMiddleware(m *metrics.Metrics, skipPath string) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: m,
		skip:    skipPath,
		now:     time.Now,
	}
}

// Handle records one observation per request.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.skip != "" && c.Path() == m.skip {
			return next(c)
		}

		start := m.now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = unmatchedRoute
		}
		m.metrics.RecordHTTPRequest(c.Request().Method, route, c.Response().Status, m.now().Sub(start))

		return nil
	}
}
