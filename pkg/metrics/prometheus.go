package metrics

/* adapted from https://github.com/zsais/go-gin-prometheus
edits:
- pluggable logger interface instead of slog
- no push gateway, no basic auth variants
- fixed standard metric set, latency histogram in milliseconds
*/

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// latencyBuckets spans fast API calls through slow report queries, in ms.
var latencyBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000,
	3000, 5000, 7500, 10000, 15000,
	30000, 60000,
}

var defaultMetricPath = "/metrics"

var reqLabels = []string{"code", "method", "url"}

type Logger interface {
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

type defaultLogger struct {
	*log.Logger
}

func (l *defaultLogger) Error(v ...interface{}) {
	l.Logger.Println(v...)
}

func (l *defaultLogger) Errorf(format string, v ...interface{}) {
	l.Logger.Printf(format, v...)
}

// RequestCounterURLLabelMappingFn controls the cardinality of the "url"
// label. Route templates (gin's FullPath) keep one series per route instead
// of one per slug.
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus instruments a gin engine and optionally serves /metrics on a
// separate listener so scrapes stay out of the API access log.
type Prometheus struct {
	reqCnt        *prometheus.CounterVec
	reqDur        *prometheus.HistogramVec
	reqSz, resSz  *prometheus.SummaryVec
	router        *gin.Engine
	listenAddress string

	MetricsPath string

	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	logger Logger
}

type NewPrometheusOptions struct {
	Subsystem               string
	MetricsPath             string
	ReqCntURLLabelMappingFn func(c *gin.Context) string
	Logger                  Logger
}

// NewPrometheus builds and registers the standard HTTP metric set.
func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		MetricsPath: options.MetricsPath,
		logger:      options.Logger,
	}
	if p.MetricsPath == "" {
		p.MetricsPath = defaultMetricPath
	}
	if p.logger == nil {
		p.logger = &defaultLogger{Logger: log.Default()}
	}
	p.ReqCntURLLabelMappingFn = options.ReqCntURLLabelMappingFn
	if p.ReqCntURLLabelMappingFn == nil {
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
			return c.Request.URL.Path
		}
	}

	p.registerMetrics(options.Subsystem)
	return p
}

// SetListenAddress exposes metrics on a dedicated address instead of the
// instrumented engine.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
	if p.listenAddress != "" {
		p.router = gin.New()
		p.router.Use(gin.Recovery())
	}
}

func (p *Prometheus) setMetricsPath(e *gin.Engine) {
	handler := gin.WrapH(promhttp.Handler())
	if p.listenAddress != "" {
		p.router.GET(p.MetricsPath, handler)
		go func() {
			if err := p.router.Run(p.listenAddress); err != nil {
				p.logger.Errorf("metrics listener failed: %v", err)
			}
		}()
		return
	}
	e.GET(p.MetricsPath, handler)
}

func (p *Prometheus) registerMetrics(subsystem string) {
	p.reqCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "req_total",
		Help:      "How many HTTP requests processed, partitioned by status code, method and route.",
	}, reqLabels)
	p.reqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "req_dur_ms",
		Help:      "The HTTP request latencies in milliseconds.",
		Buckets:   latencyBuckets,
	}, reqLabels)
	p.reqSz = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: subsystem,
		Name:      "req_sz_bytes",
		Help:      "The HTTP request sizes in bytes.",
	}, reqLabels)
	p.resSz = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: subsystem,
		Name:      "resp_sz_bytes",
		Help:      "The HTTP response sizes in bytes.",
	}, reqLabels)

	for _, c := range []prometheus.Collector{p.reqCnt, p.reqDur, p.reqSz, p.resSz} {
		if err := prometheus.Register(c); err != nil {
			p.logger.Errorf("metric could not be registered in Prometheus, err=%v", err)
		}
	}
}

// Use adds the middleware to a gin engine and mounts the metrics endpoint.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	p.setMetricsPath(e)
}

// HandlerFunc defines handler function for middleware
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		reqSz := computeApproximateRequestSize(c.Request)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := MillisecondsSince(start)
		resSz := float64(c.Writer.Size())
		url := p.ReqCntURLLabelMappingFn(c)

		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(reqSz))
		p.resSz.WithLabelValues(status, c.Request.Method, url).Observe(resSz)
	}
}
