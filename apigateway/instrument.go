package gateway

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Instrumentation exposes per-endpoint request counts and latency/size
// histograms under the medico namespace, scraped via /metrics.
func Instrumentation() fiber.Handler {
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medico",
		Subsystem: "request",
		Name:      "requests_count",
		Help:      "Number of requests per each endpoint",
	}, []string{"code", "method", "path"})

	resTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "medico",
		Subsystem: "response",
		Name:      "response_time_hist",
		Help:      "medico response duration in milliseconds",
	})

	resSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "medico",
		Subsystem: "response",
		Name:      "size_histogram",
		Help:      "medico response size",
	})

	reqSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "medico",
		Subsystem: "request",
		Name:      "size_hist",
		Help:      "Request size instrumenter",
	})

	colls := []prometheus.Collector{counterVec, resTime, resSize, reqSize}
	for _, v := range colls {
		if err := prometheus.Register(v); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch existing := are.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					counterVec = existing
				}
				continue
			}
			panic(err)
		}
	}

	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		duration := float64(time.Since(start)) * 1e-6

		status := strconv.Itoa(c.Response().StatusCode())
		routePath := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			routePath = r.Path
		}

		counterVec.WithLabelValues(status, c.Method(), routePath).Inc()
		resTime.Observe(duration)
		resSize.Observe(float64(len(c.Response().Body())))
		reqSize.Observe(float64(len(c.Body())))

		return err
	}
}
