package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	annotationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mtreview",
		Name:      "annotations_submitted_total",
		Help:      "Annotations accepted by the lifecycle.",
	})
	evaluationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mtreview",
		Name:      "evaluations_submitted_total",
		Help:      "Evaluations accepted by the second tier.",
	})
	assessmentsRun = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mtreview",
		Name:      "quality_assessments_total",
		Help:      "Simulated quality model runs persisted.",
	})
)
