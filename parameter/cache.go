package parameter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gpc_parameter_cache_lookups_total",
	Help: "Parameter basis and quadrature cache lookups by result",
}, []string{"cache", "result"})

// Caches grow monotonically for the life of the parameter. Keys are bounded
// by the highest requested degree and point count, so nothing is evicted.

type basisKey struct {
	degree int
	z      float64
}

type basisCache struct {
	mu     sync.RWMutex
	values map[basisKey]float64
}

func (bc *basisCache) getOrCompute(key basisKey, compute func() (float64, error)) (float64, error) {
	bc.mu.RLock()
	val, ok := bc.values[key]
	bc.mu.RUnlock()
	if ok {
		cacheLookups.WithLabelValues("basis", "hit").Inc()
		return val, nil
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()
	if val, ok = bc.values[key]; ok {
		cacheLookups.WithLabelValues("basis", "hit").Inc()
		return val, nil
	}
	cacheLookups.WithLabelValues("basis", "miss").Inc()
	val, err := compute()
	if err != nil {
		return 0, err
	}
	if bc.values == nil {
		bc.values = make(map[basisKey]float64)
	}
	bc.values[key] = val
	return val, nil
}

type quadratureCache struct {
	mu     sync.RWMutex
	rules  map[int]*QuadratureRule
	builds int
}

func (qc *quadratureCache) getOrCompute(n int, compute func() (*QuadratureRule, error)) (*QuadratureRule, error) {
	qc.mu.RLock()
	qr, ok := qc.rules[n]
	qc.mu.RUnlock()
	if ok {
		cacheLookups.WithLabelValues("quadrature", "hit").Inc()
		return qr, nil
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()
	if qr, ok = qc.rules[n]; ok {
		cacheLookups.WithLabelValues("quadrature", "hit").Inc()
		return qr, nil
	}
	cacheLookups.WithLabelValues("quadrature", "miss").Inc()
	qc.builds++
	qr, err := compute()
	if err != nil {
		return nil, err
	}
	if qc.rules == nil {
		qc.rules = make(map[int]*QuadratureRule)
	}
	qc.rules[n] = qr
	return qr, nil
}

func (qc *quadratureCache) computed() int {
	qc.mu.RLock()
	defer qc.mu.RUnlock()
	return qc.builds
}
