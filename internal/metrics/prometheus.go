package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type prometheusObserver struct {
	evaluationCounter *prometheus.CounterVec
	auditCounter      prometheus.Counter
}

var (
	evaluationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "togglekit_evaluations_total",
		Help: "Total number of toggle evaluations by outcome",
	}, []string{"outcome"})
	auditCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "togglekit_audit_writes_total",
		Help: "Total number of audit records written",
	})
)

func NewPrometheusObserver() Observer {
	return &prometheusObserver{
		evaluationCounter: evaluationCounter,
		auditCounter:      auditCounter,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (p *prometheusObserver) RecordEvaluation(outcome string) {
	p.evaluationCounter.WithLabelValues(outcome).Inc()
}

func (p *prometheusObserver) RecordAuditWrite() {
	p.auditCounter.Inc()
}
