// Package metrics exposes Prometheus instrumentation for searches, scrapes and the cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scrape outcomes used as label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds all Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	SearchesTotal   prometheus.Counter
	SearchDuration  prometheus.Histogram
	ScrapesTotal    *prometheus.CounterVec
	ScrapeDuration  *prometheus.HistogramVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CoalescedTotal  prometheus.Counter
	LoginsTotal     *prometheus.CounterVec
	OpenSessions    prometheus.Gauge
	OperatorFailure *prometheus.CounterVec
}

// New registers the collectors on reg under namespace.
// A nil registry builds unregistered collectors.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		SearchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of multi-operator searches",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time taken to fan out and merge a search",
			Buckets:   prometheus.DefBuckets,
		}),
		ScrapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Portal scrapes by operator and outcome",
		}, []string{"operator", "outcome"}),
		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Time taken to log in, search and extract a results grid",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"operator"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Availability lookups served from the cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Availability lookups that required a scrape",
		}),
		CoalescedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesced_requests_total",
			Help:      "Lookups that joined an in-flight scrape for the same key",
		}),
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portal_logins_total",
			Help:      "Portal login attempts by operator and outcome",
		}, []string{"operator", "outcome"}),
		OpenSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "portal_sessions_open",
			Help:      "Authenticated portal sessions currently pooled",
		}),
		OperatorFailure: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operator_failures_total",
			Help:      "Operator tasks that contributed no results, by kind",
		}, []string{"operator", "kind"}),
	}
	if reg != nil {
		m.registry = reg
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one completed search.
func (m *Metrics) ObserveSearch(d time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.Inc()
	m.SearchDuration.Observe(d.Seconds())
}

// ObserveScrape records one portal scrape.
func (m *Metrics) ObserveScrape(operator string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.ScrapesTotal.WithLabelValues(operator, outcome).Inc()
	m.ScrapeDuration.WithLabelValues(operator).Observe(d.Seconds())
}

// CacheHit records a lookup served from the cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// CacheMiss records a lookup that required a scrape.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// Coalesced records a lookup that shared another caller's scrape.
func (m *Metrics) Coalesced() {
	if m == nil {
		return
	}
	m.CoalescedTotal.Inc()
}

// ObserveLogin records a portal login attempt.
func (m *Metrics) ObserveLogin(operator string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.LoginsTotal.WithLabelValues(operator, outcome).Inc()
}

// SessionOpened increments the pooled session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.OpenSessions.Inc()
}

// SessionClosed decrements the pooled session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.OpenSessions.Dec()
}

// OperatorFailed records an operator task that produced no results.
func (m *Metrics) OperatorFailed(operator, kind string) {
	if m == nil {
		return
	}
	m.OperatorFailure.WithLabelValues(operator, kind).Inc()
}
