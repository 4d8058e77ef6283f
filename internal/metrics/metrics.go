// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// RPCCalls counts remote calls per method and outcome (ok, error)
	RPCCalls *prometheus.CounterVec

	// RPCLatency tracks remote call latency
	RPCLatency *prometheus.HistogramVec

	// Steps counts pipeline steps (prepare, submit, await) per outcome
	Steps *prometheus.CounterVec

	// PollAttempts tracks how many status queries a transaction needed
	PollAttempts prometheus.Histogram

	// ContractErrors counts translated contract error codes
	ContractErrors *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trustless_rpc_calls_total",
			Help: "Total number of Soroban RPC calls",
		}, []string{"method", "outcome"}),
		RPCLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustless_rpc_latency_seconds",
			Help:    "Soroban RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		Steps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trustless_pipeline_steps_total",
			Help: "Total number of transaction pipeline steps by outcome",
		}, []string{"step", "outcome"}),
		PollAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustless_poll_attempts",
			Help:    "Status queries needed before a transaction reached finality",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 30, 60},
		}),
		ContractErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trustless_contract_errors_total",
			Help: "Contract error codes observed in failed transactions",
		}, []string{"code"}),
	}
}

func (m *Metrics) ObserveRPC(method string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.RPCLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	m.RPCCalls.WithLabelValues(method, outcome(err)).Inc()
}

func (m *Metrics) ObserveStep(step string, err error) {
	if m == nil {
		return
	}
	m.Steps.WithLabelValues(step, outcome(err)).Inc()
}

func (m *Metrics) ObservePolls(attempts int) {
	if m == nil {
		return
	}
	m.PollAttempts.Observe(float64(attempts))
}

func (m *Metrics) ObserveContractError(code string) {
	if m == nil {
		return
	}
	m.ContractErrors.WithLabelValues(code).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
