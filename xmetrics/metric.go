// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	CounterType   = "counter"
	GaugeType     = "gauge"
	HistogramType = "histogram"
)

// Module is a function type that returns prebuilt metrics.  Each package that is instrumented
// exposes a Metrics function of this type.
type Module func() []Metric

// Metric describes a single metric that will be preregistered.  This type loosely
// corresponds with Prometheus' Opts struct.
type Metric struct {
	// Name is the required name of this metric.
	Name string `json:"name"`

	// Type is the required type of metric.  This value must be one of the constants defined in this package.
	Type string `json:"type"`

	// Namespace is optional.  The registry's default namespace is used if this is not supplied.
	Namespace string `json:"namespace"`

	// Subsystem is optional.  The registry's default subsystem is used if this is not supplied.
	Subsystem string `json:"subsystem"`

	// Help is the help string for this metric.  If not supplied, the metric's name is used
	Help string `json:"help"`

	// ConstLabels are the Prometheus ConstLabels for this metric.
	ConstLabels map[string]string `json:"constLabels"`

	// LabelNames are the Prometheus label names for this metric.
	LabelNames []string `json:"labelNames"`

	// Buckets describes the observation buckets for a histogram.  Ignored for other metric types.
	Buckets []float64 `json:"buckets"`
}

// NewCollector creates a Prometheus metric from a Metric descriptor.  The name must not be empty.
// If not supplied in the metric, namespace, subsystem, and help all take on defaults.
func NewCollector(m Metric, defaultNamespace, defaultSubsystem string) (prometheus.Collector, error) {
	if len(m.Name) == 0 {
		return nil, errors.New("A name is required for a metric")
	}

	var (
		namespace = m.Namespace
		subsystem = m.Subsystem
		help      = m.Help
	)

	if len(namespace) == 0 {
		namespace = defaultNamespace
	}

	if len(subsystem) == 0 {
		subsystem = defaultSubsystem
	}

	if len(help) == 0 {
		help = m.Name
	}

	switch m.Type {
	case CounterType:
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        m.Name,
			Help:        help,
			ConstLabels: prometheus.Labels(m.ConstLabels),
		}, m.LabelNames), nil

	case GaugeType:
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        m.Name,
			Help:        help,
			ConstLabels: prometheus.Labels(m.ConstLabels),
		}, m.LabelNames), nil

	case HistogramType:
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        m.Name,
			Help:        help,
			Buckets:     m.Buckets,
			ConstLabels: prometheus.Labels(m.ConstLabels),
		}, m.LabelNames), nil

	default:
		return nil, fmt.Errorf("Unsupported metric type: %s", m.Type)
	}
}
