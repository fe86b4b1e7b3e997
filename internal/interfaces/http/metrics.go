package httpinterface

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "escrowd",
		Name:      "operations_total",
		Help:      "Escrow operations processed, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func observeOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationsCounter.WithLabelValues(operation, outcome).Inc()
}
