// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"fmt"
	"sync"

	"github.com/go-kit/kit/metrics"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the core abstraction for this package.  It is a Prometheus registry and a go-kit metrics.Provider all in one.
//
// For any metric that is already defined the provider returns a new go-kit wrapper for that metric.  New metrics
// (including ad hoc metrics) are cached and returned by subsequent calls to the Provider methods.
type Registry interface {
	provider.Provider
	prometheus.Gatherer
	prometheus.Registerer
}

// registry is the internal Registry implementation
type registry struct {
	*prometheus.Registry

	namespace string
	subsystem string

	lock  sync.Mutex
	cache map[string]prometheus.Collector
}

// NewRegistry creates a Registry from a set of options, preregistering the metrics from the options
// and from each module.  Duplicate metric names are an error.
func NewRegistry(o *Options, modules ...Module) (Registry, error) {
	r := &registry{
		Registry:  o.registry(),
		namespace: o.namespace(),
		subsystem: o.subsystem(),
		cache:     make(map[string]prometheus.Collector),
	}

	all := append([]Metric{}, o.Module()...)
	for _, m := range modules {
		all = append(all, m()...)
	}

	for _, m := range all {
		if _, ok := r.cache[m.Name]; ok {
			return nil, fmt.Errorf("duplicate metric with name: %s", m.Name)
		}

		c, err := NewCollector(m, r.namespace, r.subsystem)
		if err != nil {
			return nil, err
		}

		if err := r.Registry.Register(c); err != nil {
			return nil, fmt.Errorf("Error while preregistering metric %s: %s", m.Name, err)
		}

		r.cache[m.Name] = c
	}

	return r, nil
}

// collector returns the cached collector for name, creating and registering an ad hoc one
// of the given type if necessary.
func (r *registry) collector(name, metricType string) prometheus.Collector {
	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.cache[name]; ok {
		return existing
	}

	c, err := NewCollector(Metric{Name: name, Type: metricType}, r.namespace, r.subsystem)
	if err != nil {
		panic(err)
	}

	if err := r.Registry.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			c = already.ExistingCollector
		} else {
			panic(err)
		}
	}

	r.cache[name] = c
	return c
}

func (r *registry) NewCounter(name string) metrics.Counter {
	counterVec, ok := r.collector(name, CounterType).(*prometheus.CounterVec)
	if !ok {
		panic(fmt.Errorf("The metric %s is not a counter", name))
	}

	return gokitprometheus.NewCounter(counterVec)
}

func (r *registry) NewGauge(name string) metrics.Gauge {
	gaugeVec, ok := r.collector(name, GaugeType).(*prometheus.GaugeVec)
	if !ok {
		panic(fmt.Errorf("The metric %s is not a gauge", name))
	}

	return gokitprometheus.NewGauge(gaugeVec)
}

func (r *registry) NewHistogram(name string, _ int) metrics.Histogram {
	histogramVec, ok := r.collector(name, HistogramType).(*prometheus.HistogramVec)
	if !ok {
		panic(fmt.Errorf("The metric %s is not a histogram", name))
	}

	return gokitprometheus.NewHistogram(histogramVec)
}

func (r *registry) Stop() {
}
