package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yawt_store_ops_total",
		Help: "Store operations by kind.",
	}, []string{"op"})

	commitConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yawt_store_commit_conflicts_total",
		Help: "Atomic commits rejected by an optimistic check.",
	})
)
