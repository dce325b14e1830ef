// Package metrics counts session lifecycle events with Prometheus.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "warehouse_client"

type Collector struct {
	logins          *prometheus.CounterVec
	logouts         prometheus.Counter
	currentUser     *prometheus.CounterVec
	guardDecisions  *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Sessions cleared through logout.",
		}),
		currentUser: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "current_user_fetches_total",
			Help:      "Current-user refreshes by result.",
		}, []string{"result"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Navigation guard outcomes by decision and target route.",
		}, []string{"decision", "route"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_failures_total",
			Help:      "Durable storage operations that failed, by operation.",
		}, []string{"op"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications shown by type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		c.logins,
		c.logouts,
		c.currentUser,
		c.guardDecisions,
		c.storageFailures,
		c.notifications,
	)
	return c
}

func (c *Collector) RecordLogin(success bool) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(result(success)).Inc()
}

func (c *Collector) RecordLogout() {
	if c == nil {
		return
	}
	c.logouts.Inc()
}

func (c *Collector) RecordCurrentUser(success bool) {
	if c == nil {
		return
	}
	c.currentUser.WithLabelValues(result(success)).Inc()
}

// RecordGuardDecision counts one navigation. route is the redirect target, or
// the requested route when navigation was allowed.
func (c *Collector) RecordGuardDecision(decision, route string) {
	if c == nil {
		return
	}
	c.guardDecisions.WithLabelValues(decision, route).Inc()
}

func (c *Collector) RecordStorageFailure(op string) {
	if c == nil {
		return
	}
	c.storageFailures.WithLabelValues(op).Inc()
}

func (c *Collector) RecordNotification(kind string) {
	if c == nil {
		return
	}
	c.notifications.WithLabelValues(kind).Inc()
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
