package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	ComplaintsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aptcare_complaints_created_total",
		Help: "Complaints filed by residents.",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aptcare_status_transitions_total",
		Help: "Applied complaint status transitions.",
	}, []string{"from", "to"})

	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aptcare_payments_recorded_total",
		Help: "Payments recorded against resolved complaints.",
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
