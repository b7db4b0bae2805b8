package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics carries the business counters. HTTP-level metrics come from the
// fiberprometheus middleware; everything here is domain traffic.
type Metrics struct {
	CallsRequested    prometheus.Counter
	CallsAnswered     *prometheus.CounterVec
	CallsSettled      *prometheus.CounterVec
	CallsExpired      prometheus.Counter
	CallMinutesBilled prometheus.Counter
	DepositsCreated   prometheus.Counter
	DepositsSettled   *prometheus.CounterVec
	TipsPosted        prometheus.Counter
	WithdrawalsOpened prometheus.Counter
	PayoutsProcessed  *prometheus.CounterVec
	ValidationErrors  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		CallsRequested: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flayve_calls_requested_total",
				Help: "Total number of call sessions opened",
			},
		),
		CallsAnswered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flayve_calls_answered_total",
				Help: "Total number of answered ringing sessions by outcome",
			},
			[]string{"outcome"},
		),
		CallsSettled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flayve_calls_settled_total",
				Help: "Total number of ended sessions by outcome",
			},
			[]string{"outcome"},
		),
		CallsExpired: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flayve_calls_expired_total",
				Help: "Total number of ringing sessions swept into timeout",
			},
		),
		CallMinutesBilled: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flayve_call_minutes_billed_total",
				Help: "Total billed minutes across settled calls",
			},
		),
		DepositsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flayve_deposits_created_total",
				Help: "Total number of deposit intents opened",
			},
		),
		DepositsSettled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flayve_deposits_settled_total",
				Help: "Total number of settled deposits by final status",
			},
			[]string{"status"},
		),
		TipsPosted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flayve_tips_posted_total",
				Help: "Total number of tips posted",
			},
		),
		WithdrawalsOpened: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flayve_withdrawals_opened_total",
				Help: "Total number of withdrawal requests opened",
			},
		),
		PayoutsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flayve_payouts_processed_total",
				Help: "Total number of payout transfers by outcome",
			},
			[]string{"outcome"},
		),
		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flayve_validation_errors_total",
				Help: "Total number of request validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

func (m *Metrics) RecordCallRequested() {
	m.CallsRequested.Inc()
}

func (m *Metrics) RecordCallAnswered(outcome string) {
	m.CallsAnswered.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCallSettled(outcome string, minutes int64) {
	m.CallsSettled.WithLabelValues(outcome).Inc()
	if minutes > 0 {
		m.CallMinutesBilled.Add(float64(minutes))
	}
}

func (m *Metrics) RecordCallsExpired(count int64) {
	m.CallsExpired.Add(float64(count))
}

func (m *Metrics) RecordDepositCreated() {
	m.DepositsCreated.Inc()
}

func (m *Metrics) RecordDepositSettled(status string) {
	m.DepositsSettled.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordTipPosted() {
	m.TipsPosted.Inc()
}

func (m *Metrics) RecordWithdrawalOpened() {
	m.WithdrawalsOpened.Inc()
}

func (m *Metrics) RecordPayoutProcessed(outcome string) {
	m.PayoutsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}
