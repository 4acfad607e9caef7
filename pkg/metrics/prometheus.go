package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultMetricPath = "/metrics"

// HistogramBuckets covers fast JSON handlers through slow outbound Stripe
// calls (tail dominated by provider latency, not local work).
var HistogramBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000,
	3000, 5000, 7500, 10000, 15000, 30000, 60000,
}

type Logger interface {
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// RequestCounterURLLabelMappingFn controls the cardinality of the "url"
// label, e.g. mapping "/checkout-session/cs_123" to its route template.
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus collects per-request HTTP metrics and optionally serves them on
// a dedicated listener, keeping /metrics off the public port.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec

	MetricsPath             string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	listenAddress string
	logger        Logger
}

type NewPrometheusOptions struct {
	Subsystem               string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn
	Logger                  Logger
}

func NewPrometheus(opts NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		MetricsPath:             defaultMetricPath,
		ReqCntURLLabelMappingFn: opts.ReqCntURLLabelMappingFn,
		logger:                  opts.Logger,
	}
	p.reqCnt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: opts.Subsystem,
			Name:      "req_total",
			Help:      "How many HTTP requests processed, partitioned by status code, method and URL.",
		},
		[]string{"code", "method", "url"},
	)
	p.reqDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: opts.Subsystem,
			Name:      "req_dur_ms",
			Help:      "The HTTP request latencies in milliseconds.",
			Buckets:   HistogramBuckets,
		},
		[]string{"code", "method", "url"},
	)
	for _, c := range []prometheus.Collector{p.reqCnt, p.reqDur} {
		if err := prometheus.Register(c); err != nil && p.logger != nil {
			p.logger.Errorf("metric registration failed: %v", err)
		}
	}
	return p
}

// SetListenAddress configures a dedicated address for the metrics endpoint.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
}

// Use attaches the middleware to the engine and, when a listen address is
// set, serves /metrics there on a separate http.Server.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	if p.listenAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(p.MetricsPath, promhttp.Handler())
			if err := http.ListenAndServe(p.listenAddress, mux); err != nil && p.logger != nil {
				p.logger.Errorf("metrics listener error: %v", err)
			}
		}()
		return
	}
	e.GET(p.MetricsPath, gin.WrapH(promhttp.Handler()))
}

func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := c.Request.URL.Path
		if p.ReqCntURLLabelMappingFn != nil {
			url = p.ReqCntURLLabelMappingFn(c)
		}
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}
