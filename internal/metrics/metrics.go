package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	wordsRecorded   *prometheus.CounterVec
	quotaChecks     *prometheus.CounterVec
	automationPosts *prometheus.CounterVec
	automationTicks *prometheus.CounterVec
	postsExhausted  prometheus.Counter
	webhookEvents   *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordflow_http_requests_total",
				Help: "Total number of HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordflow_http_request_duration_milliseconds",
				Help:    "HTTP request duration in milliseconds",
				Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
			},
			[]string{"method"},
		),
		wordsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordflow_usage_words_recorded_total",
				Help: "Words added to the usage ledger by tool",
			},
			[]string{"tool"},
		),
		quotaChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordflow_usage_quota_checks_total",
				Help: "Quota checks by result",
			},
			[]string{"result"},
		),
		automationPosts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordflow_automation_posts_total",
				Help: "Scheduled posts processed by outcome",
			},
			[]string{"outcome"},
		),
		automationTicks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordflow_automation_ticks_total",
				Help: "Batch ticks by result",
			},
			[]string{"result"},
		),
		postsExhausted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordflow_automation_posts_exhausted_total",
				Help: "Posts that used up their automatic retries",
			},
		),
		webhookEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordflow_stripe_webhook_events_total",
				Help: "Stripe webhook events by type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.wordsRecorded,
		m.quotaChecks,
		m.automationPosts,
		m.automationTicks,
		m.postsExhausted,
		m.webhookEvents,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(float64(d.Milliseconds()))
}

func (m *Metrics) WordsRecorded(tool string, words int) {
	if m == nil {
		return
	}
	m.wordsRecorded.WithLabelValues(tool).Add(float64(words))
}

func (m *Metrics) QuotaChecked(allowed bool) {
	if m == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.quotaChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) PostProcessed(success bool) {
	if m == nil {
		return
	}
	outcome := "error"
	if success {
		outcome = "success"
	}
	m.automationPosts.WithLabelValues(outcome).Inc()
}

// TickCompleted counts batch ticks; result is one of processed, skipped or failed.
func (m *Metrics) TickCompleted(result string) {
	if m == nil {
		return
	}
	m.automationTicks.WithLabelValues(result).Inc()
}

func (m *Metrics) PostExhausted() {
	if m == nil {
		return
	}
	m.postsExhausted.Inc()
}

func (m *Metrics) WebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}
