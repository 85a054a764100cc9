package metrics

import (
	"time"

	"blackcenter/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	purchasesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackcenter_purchases_processed_total",
			Help: "Total number of payment confirmations processed by the reconciler",
		},
		[]string{"offer", "status"},
	)

	precheckoutAnswered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackcenter_precheckout_answered_total",
			Help: "Total number of pre-checkout queries answered",
		},
		[]string{"result"},
	)

	invoicesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackcenter_invoices_issued_total",
			Help: "Total number of invoices issued",
		},
		[]string{"offer", "status"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackcenter_messages_sent_total",
			Help: "Total number of messages sent by the diplomat",
		},
		[]string{"status"},
	)

	commandsUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackcenter_commands_used_total",
			Help: "Total number of commands used",
		},
		[]string{"command"},
	)

	reconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blackcenter_reconcile_duration_seconds",
			Help:    "Duration of payment reconciliation including store calls",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		purchasesProcessed,
		precheckoutAnswered,
		invoicesIssued,
		messagesSent,
		commandsUsed,
		reconcileDuration,
	)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{log: log}
}

func (x *MetricsService) RecordPurchase(offer, status string) {
	purchasesProcessed.WithLabelValues(offer, status).Inc()
}

func (x *MetricsService) RecordPreCheckout(result string) {
	precheckoutAnswered.WithLabelValues(result).Inc()
}

func (x *MetricsService) RecordInvoiceIssued(offer, status string) {
	invoicesIssued.WithLabelValues(offer, status).Inc()
}

func (x *MetricsService) RecordMessageSent(status string) {
	messagesSent.WithLabelValues(status).Inc()
}

func (x *MetricsService) RecordCommandUsed(command string) {
	commandsUsed.WithLabelValues(command).Inc()
}

func (x *MetricsService) ObserveReconcileDuration(d time.Duration) {
	reconcileDuration.Observe(d.Seconds())
}
