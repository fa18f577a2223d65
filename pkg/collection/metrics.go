package collection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// orphanSkips counts order index entries whose primary record was missing
// during a list. Anything above zero indicates a writer bypassed the atomic
// commit path.
var orphanSkips = promauto.NewCounter(prometheus.CounterOpts{
	Name: "yawt_collection_orphan_index_entries_total",
	Help: "Order index entries skipped because the primary record was missing.",
})
