package pchaos

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quadratureBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gpc_quadrature_builds_total",
		Help: "Total number of tensor product quadrature rules built",
	})

	projectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpc_projections_total",
		Help: "Total number of stochastic Galerkin projections by operator",
	}, []string{"operator"})

	projectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gpc_projection_duration_seconds",
		Help:    "Wall time of stochastic Galerkin projections by operator",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{"operator"})
)

const (
	opResidual = "residual"
	opJacobian = "jacobian"
	opInitCond = "initcond"
	opFunction = "function"
)
