// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain event names used as the "event" label of DomainEvents.
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventLikeAdded      = "like_added"
	EventLikeDuplicate  = "like_duplicate"
	EventLikeRemoved    = "like_removed"
	EventCommentAdded   = "comment_added"
	EventCommentDeleted = "comment_deleted"
)

var (
	// HTTPRequests counts requests by route pattern, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixora_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	// HTTPDuration records request latency by route pattern and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pixora_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// DomainEvents counts state changes.
	DomainEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixora_domain_events_total",
		Help: "Total number of domain events by type",
	}, []string{"event"})

	// WorkerEvents counts activity stream entries handled by workers.
	WorkerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixora_worker_events_total",
		Help: "Activity stream events handled by workers",
	}, []string{"type", "result"})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(route, method string, status int, start time.Time) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}

// RecordEvent increments the domain event counter.
func RecordEvent(event string) {
	DomainEvents.WithLabelValues(event).Inc()
}
