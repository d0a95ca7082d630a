package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sudo-init-do/workhub/internal/domain"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "workhub",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "workhub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	ledgerEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhub",
			Subsystem: "ledger",
			Name:      "entries_total",
			Help:      "Committed balance movements by entry type.",
		},
		[]string{"type"},
	)

	ledgerAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhub",
			Subsystem: "ledger",
			Name:      "amount_total",
			Help:      "Committed money moved by entry type.",
		},
		[]string{"type"},
	)

	adTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhub",
			Subsystem: "ads",
			Name:      "transitions_total",
			Help:      "Committed ad status transitions.",
		},
		[]string{"from", "to"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workhub",
			Subsystem: "alerts",
			Name:      "notifications_total",
			Help:      "Notification dispatch attempts by type and result.",
		},
		[]string{"type", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ledgerEntries,
		ledgerAmount,
		adTransitions,
		notifications,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordEntries counts committed ledger entries.
func RecordEntries(entries ...*domain.LedgerEntry) {
	for _, e := range entries {
		if e == nil {
			continue
		}
		ledgerEntries.WithLabelValues(string(e.Type)).Inc()
		ledgerAmount.WithLabelValues(string(e.Type)).Add(float64(e.Amount))
	}
}

// RecordTransition counts a committed ad status change. from is empty for new ads.
func RecordTransition(from, to domain.AdStatus) {
	if from == "" {
		from = "none"
	}
	adTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func RecordNotification(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	notifications.WithLabelValues(kind, result).Inc()
}
