// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FetchTotal counts forecast fetches by consumer and result
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windflow_fetch_total",
			Help: "Forecast fetches by consumer and result.",
		},
		[]string{"consumer", "result"},
	)

	// RenderTotal counts render passes
	RenderTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "windflow_render_total",
		Help: "Render passes that replaced the streamlines.",
	})

	// AnimationCycles counts completed streamline reveals
	AnimationCycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "windflow_animation_cycles_total",
		Help: "Completed streamline reveals.",
	})

	// CycleSeconds is the reveal duration of the sample on display
	CycleSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "windflow_animation_cycle_seconds",
		Help: "Reveal duration for the sample on display.",
	})

	// WindSpeed is the wind speed of the sample on display
	WindSpeed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "windflow_wind_speed_kmh",
		Help: "Wind speed of the sample on display.",
	})

	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windflow_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(FetchTotal, RenderTotal, AnimationCycles, CycleSeconds, WindSpeed, requestCounter)
}

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }

// ObserveFetch records the outcome of a fetch
func ObserveFetch(consumer string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	FetchTotal.WithLabelValues(consumer, result).Inc()
}

// Middleware counts requests. route resolves the route label for r after the
// handler ran, so routers can report their pattern instead of the raw path.
func Middleware(route func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			requestCounter.WithLabelValues(route(r), r.Method, strconv.Itoa(rw.status)).Inc()
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
