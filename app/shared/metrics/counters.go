package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LotteryCounters records domain-level events: tickets minted, draws run,
// payment confirmations by rail.
type LotteryCounters interface {
	RecordTicketIssued(ctx context.Context, paymentMethod string)
	RecordRoundCreated(ctx context.Context)
	RecordDrawCompleted(ctx context.Context)
	RecordDrawSkipped(ctx context.Context)
	RecordPaymentConfirmed(ctx context.Context, rail string)
	RecordPaymentRejected(ctx context.Context, rail, reason string)
}

type prometheusCounters struct {
	ticketsIssued     *prometheus.CounterVec
	roundsCreated     prometheus.Counter
	drawsCompleted    prometheus.Counter
	drawsSkipped      prometheus.Counter
	paymentsConfirmed *prometheus.CounterVec
	paymentsRejected  *prometheus.CounterVec
}

// NewLotteryCounters registers the domain counters under the given namespace.
func NewLotteryCounters(reg prometheus.Registerer, namespace string) LotteryCounters {
	return &prometheusCounters{
		ticketsIssued: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_issued_total",
			Help:      "Tickets minted, by payment method.",
		}, []string{"payment_method"}),
		roundsCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_created_total",
			Help:      "Lottery rounds opened.",
		}),
		drawsCompleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_completed_total",
			Help:      "Draws that selected a winner.",
		}),
		drawsSkipped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_skipped_total",
			Help:      "Draws skipped for lack of sales.",
		}),
		paymentsConfirmed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_confirmed_total",
			Help:      "Payment confirmations accepted, by rail.",
		}, []string{"rail"}),
		paymentsRejected: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_rejected_total",
			Help:      "Payment confirmations rejected, by rail and reason.",
		}, []string{"rail", "reason"}),
	}
}

func (c *prometheusCounters) RecordTicketIssued(_ context.Context, paymentMethod string) {
	c.ticketsIssued.WithLabelValues(paymentMethod).Inc()
}

func (c *prometheusCounters) RecordRoundCreated(context.Context) { c.roundsCreated.Inc() }

func (c *prometheusCounters) RecordDrawCompleted(context.Context) { c.drawsCompleted.Inc() }

func (c *prometheusCounters) RecordDrawSkipped(context.Context) { c.drawsSkipped.Inc() }

func (c *prometheusCounters) RecordPaymentConfirmed(_ context.Context, rail string) {
	c.paymentsConfirmed.WithLabelValues(rail).Inc()
}

func (c *prometheusCounters) RecordPaymentRejected(_ context.Context, rail, reason string) {
	c.paymentsRejected.WithLabelValues(rail, reason).Inc()
}

// NoOpCounters satisfies LotteryCounters without recording anything.
type NoOpCounters struct{}

func NewNoopCounters() *NoOpCounters { return &NoOpCounters{} }

func (*NoOpCounters) RecordTicketIssued(context.Context, string)           {}
func (*NoOpCounters) RecordRoundCreated(context.Context)                   {}
func (*NoOpCounters) RecordDrawCompleted(context.Context)                  {}
func (*NoOpCounters) RecordDrawSkipped(context.Context)                    {}
func (*NoOpCounters) RecordPaymentConfirmed(context.Context, string)       {}
func (*NoOpCounters) RecordPaymentRejected(context.Context, string, string) {}
