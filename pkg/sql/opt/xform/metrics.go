// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters updated by optimizers. A single Metrics value
// can be shared by any number of optimizers.
type Metrics struct {
	Optimizations        prometheus.Counter
	IterationLimitErrors prometheus.Counter
	RulesApplied         *prometheus.CounterVec
	RuleFaults           *prometheus.CounterVec
}

// NewMetrics creates the optimizer metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Optimizations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fusequery",
			Subsystem: "optimizer",
			Name:      "optimizations_total",
			Help:      "Number of plans optimized.",
		}),
		IterationLimitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fusequery",
			Subsystem: "optimizer",
			Name:      "iteration_limit_errors_total",
			Help:      "Number of optimizations aborted because rules kept rewriting the plan.",
		}),
		RulesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fusequery",
			Subsystem: "optimizer",
			Name:      "rules_applied_total",
			Help:      "Number of substitutions made, by rule.",
		}, []string{"rule"}),
		RuleFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fusequery",
			Subsystem: "optimizer",
			Name:      "rule_faults_total",
			Help:      "Number of internal errors raised by rules, by rule.",
		}, []string{"rule"}),
	}
}

// Register registers all the metrics with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	var err error
	for _, c := range []prometheus.Collector{
		m.Optimizations, m.IterationLimitErrors, m.RulesApplied, m.RuleFaults,
	} {
		err = errors.CombineErrors(err, reg.Register(c))
	}
	return err
}
