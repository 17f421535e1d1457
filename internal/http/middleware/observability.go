package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"corporate-checkout/internal/logx"
)

var httpLabels = []string{"method", "route", "status"}

// HTTPMetrics is the per-route request telemetry of the checkout API.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics builds the collectors without registering them.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route and status.",
		}, httpLabels),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency, by route and status.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, httpLabels),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
	}
}

// Register adds every collector to reg, stopping at the first failure.
func (m *HTTPMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Requests, m.Latency, m.InFlight} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *HTTPMetrics) observe(method, route string, status int, took time.Duration) {
	code := strconv.Itoa(status)
	m.Requests.WithLabelValues(method, route, code).Inc()
	m.Latency.WithLabelValues(method, route, code).Observe(took.Seconds())
}

// Observability records metrics and one access log entry per request.
// Server errors log at error level, client errors at warn.
func Observability(logger logx.Logger, m *HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.InFlight.Inc()
			defer m.InFlight.Dec()

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routeOf(r)
			m.observe(r.Method, route, status, took)

			fields := []logx.Field{
				logx.String("request_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("route", route),
				logx.Int("status", status),
				logx.Int("bytes", ww.BytesWritten()),
				logx.Duration("duration", took),
			}
			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
		})
	}
}

// routeOf prefers the matched chi pattern so ids never become label values.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
