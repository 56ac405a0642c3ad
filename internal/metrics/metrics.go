package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_orders_created_total",
		Help: "Orders opened in pending_proof.",
	})

	OrdersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_orders_completed_total",
		Help: "Orders approved and completed.",
	})

	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_orders_rejected_total",
		Help: "Orders rejected by staff.",
	})

	TransitionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_order_transition_failures_total",
		Help: "Failed approve/reject attempts by cause.",
	}, []string{"cause"})
)
