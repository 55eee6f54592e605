package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// webhookフローの部分失敗はログだけだと埋もれるので、必ずカウンタにも出す。
type CheckoutMetrics struct {
	OrdersCreated     prometheus.Counter
	DuplicateWebhooks prometheus.Counter
	AmountMismatches  prometheus.Counter
	Oversells         prometheus.Counter
	NotifyFailures    prometheus.Counter
	CheckoutSessions  *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	m := &CheckoutMetrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "orders_created_total",
			Help:      "Orders created by the payment webhook.",
		}),
		DuplicateWebhooks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "webhook_duplicate_deliveries_total",
			Help:      "Webhook deliveries skipped because the event was already processed.",
		}),
		AmountMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "payment_amount_mismatches_total",
			Help:      "Provider-reported totals that did not match the recomputed line-item total.",
		}),
		Oversells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "inventory_oversells_total",
			Help:      "Paid orders that exceeded available stock.",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "order_notify_failures_total",
			Help:      "Confirmation notifications that failed after order creation.",
		}),
		CheckoutSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "checkout_sessions_total",
			Help:      "Checkout sessions opened against the payment provider.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.OrdersCreated,
		m.DuplicateWebhooks,
		m.AmountMismatches,
		m.Oversells,
		m.NotifyFailures,
		m.CheckoutSessions,
	)
	return m
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
