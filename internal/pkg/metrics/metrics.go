package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Workflow counters, labelled by outcome so conflicts and rejections show up
// next to successful transitions.
var (
	LoansOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smap_loans_opened_total",
		Help: "Loan transactions opened, by outcome.",
	}, []string{"outcome"})

	LoansClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smap_loans_closed_total",
		Help: "Loan transactions closed, by outcome.",
	}, []string{"outcome"})

	TicketsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smap_maintenance_opened_total",
		Help: "Maintenance tickets opened, by outcome.",
	}, []string{"outcome"})

	TicketsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smap_maintenance_closed_total",
		Help: "Maintenance tickets closed, by outcome.",
	}, []string{"outcome"})

	SummaryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smap_summary_cache_hits_total",
		Help: "Dashboard summary reads served from cache.",
	})

	SummaryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smap_summary_cache_misses_total",
		Help: "Dashboard summary reads that recomputed the rollup.",
	})
)

const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)
