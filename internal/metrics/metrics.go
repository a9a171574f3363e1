// Package metrics holds the Prometheus instruments of the wall server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Submissions counts submission attempts by outcome.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wall_submissions_total",
		Help: "Confession submissions by outcome",
	}, []string{"outcome"})

	// Reactions counts react attempts by outcome (added, already_reacted, error).
	Reactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wall_reactions_total",
		Help: "Reaction attempts by outcome",
	}, []string{"outcome"})

	// Reports counts filed reports by reason.
	Reports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wall_reports_total",
		Help: "Reports filed by reason",
	}, []string{"reason"})

	// ModerationActions counts moderator actions and the reports they touched.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wall_moderation_actions_total",
		Help: "Moderator actions by action and result",
	}, []string{"action", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wall_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"method", "route", "status"})
)

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// Middleware observes request latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		requestDuration.WithLabelValues(
			c.Method(),
			c.Route().Path,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
		return err
	}
}
