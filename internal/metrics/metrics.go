// Package metrics holds the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BillsCreated counts bills opened by vendors.
	BillsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splittab_bills_created_total",
		Help: "Number of bills created.",
	})

	// GroupsCreated counts groups created by customers.
	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splittab_groups_created_total",
		Help: "Number of groups created.",
	})

	// ItemsAssigned counts split-assignment operations on bill items.
	ItemsAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splittab_items_assigned_total",
		Help: "Number of item split assignments applied.",
	})

	// RequestDuration observes HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splittab_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
