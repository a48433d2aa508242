package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine agrupa os contadores do pipeline de aceitação de bilhetes.
// Receiver nil é seguro (testes instanciam o motor sem métricas).
type Engine struct {
	submitted     prometheus.Counter
	committed     prometheus.Counter
	rejected      *prometheus.CounterVec
	commitSeconds prometheus.Histogram
}

// NewEngine registra os coletores no registro padrão do Prometheus.
func NewEngine() *Engine {
	return &Engine{
		submitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wager_slips_submitted_total",
			Help: "Total de bilhetes recebidos pelo motor.",
		}),
		committed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wager_slips_committed_total",
			Help: "Total de bilhetes efetivados.",
		}),
		rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wager_slips_rejected_total",
			Help: "Total de bilhetes rejeitados, por motivo.",
		}, []string{"reason"}),
		commitSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wager_commit_duration_seconds",
			Help:    "Duração da transação de efetivação.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (e *Engine) Submitted() {
	if e != nil {
		e.submitted.Inc()
	}
}

func (e *Engine) Committed() {
	if e != nil {
		e.committed.Inc()
	}
}

func (e *Engine) Rejected(reason string) {
	if e != nil {
		e.rejected.WithLabelValues(reason).Inc()
	}
}

func (e *Engine) CommitObserved(d time.Duration) {
	if e != nil {
		e.commitSeconds.Observe(d.Seconds())
	}
}
