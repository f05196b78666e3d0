package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "iam"

const (
	AuthResultSuccess          = "success"
	AuthResultWrongCredentials = "wrong_credentials"
	AuthResultInactive         = "inactive"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authAttemptsTotal   *prometheus.CounterVec
	identityEventsTotal *prometheus.CounterVec
	registerOnce        sync.Once
)

// Register creates the collectors on the default registry. Until it runs,
// every recording helper is a no-op.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the identity API.",
		}, []string{"method", "path", "status"})

		httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"})

		authAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Login attempts, labelled by result.",
		}, []string{"result"})

		identityEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_events_total",
			Help:      "Identity domain events published, by type.",
		}, []string{"type"})
	})
}

func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func IncAuthAttempt(result string) {
	if authAttemptsTotal == nil {
		return
	}
	authAttemptsTotal.WithLabelValues(result).Inc()
}

// EventCounter is an event bus handler counting every identity event.
func EventCounter(_ context.Context, event events.Event) error {
	if identityEventsTotal != nil {
		identityEventsTotal.WithLabelValues(event.EventType()).Inc()
	}
	return nil
}

// SubscribeEvents attaches EventCounter to every identity event type.
func SubscribeEvents(bus *events.EventBus) {
	for _, t := range events.IdentityEventTypes {
		bus.Subscribe(t, EventCounter)
	}
}
