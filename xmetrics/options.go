// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
)

const (
	DefaultNamespace = "rtsync"
	DefaultSubsystem = "primitives"

	// MetricsKey is the Viper subkey under which metrics options are stored.
	MetricsKey = "metrics"
)

// Options is the configurable options for creating a Prometheus registry
type Options struct {
	// Namespace is the global default namespace for metrics which don't define a namespace (or for ad hoc metrics).
	// If not supplied, DefaultNamespace is used.
	Namespace string `json:"namespace"`

	// Subsystem is the global default subsystem for metrics which don't define a subsystem (or for ad hoc metrics).
	// If not supplied, DefaultSubsystem is used.
	Subsystem string `json:"subsystem"`

	// Pedantic indicates whether the registry is created via NewPedanticRegistry().  By default, this is false.  Set
	// to true for testing or development.
	Pedantic bool `json:"pedantic"`

	// DisableGoCollector controls whether the Go Collector is registered with the Registry.  By default this is false,
	// meaning that a GoCollector is registered.
	DisableGoCollector bool `json:"disableGoCollector"`

	// DisableProcessCollector controls whether the Process Collector is registered with the Registry.
	DisableProcessCollector bool `json:"disableProcessCollector"`

	// Metrics defines the set of predefined metrics.  Duplicate metrics, having the same namespace,
	// subsystem, and name, cause an error.
	Metrics []Metric `json:"metrics"`
}

func (o *Options) namespace() string {
	if o != nil && len(o.Namespace) > 0 {
		return o.Namespace
	}

	return DefaultNamespace
}

func (o *Options) subsystem() string {
	if o != nil && len(o.Subsystem) > 0 {
		return o.Subsystem
	}

	return DefaultSubsystem
}

func (o *Options) registry() *prometheus.Registry {
	var pr *prometheus.Registry

	if o != nil && o.Pedantic {
		pr = prometheus.NewPedanticRegistry()
	} else {
		pr = prometheus.NewRegistry()
	}

	if o == nil || !o.DisableGoCollector {
		pr.MustRegister(collectors.NewGoCollector())
	}

	if o == nil || !o.DisableProcessCollector {
		pr.MustRegister(collectors.NewProcessCollector(
			collectors.ProcessCollectorOpts{
				Namespace: o.namespace(),
			},
		))
	}

	return pr
}

// Module acts as a metrics module function using the (normally) injected metrics.
func (o *Options) Module() []Metric {
	if o != nil {
		return o.Metrics
	}

	return nil
}

// FromViper produces Options from the MetricsKey subtree of a (possibly nil) Viper instance.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		if sub := v.Sub(MetricsKey); sub != nil {
			if err := sub.Unmarshal(o); err != nil {
				return nil, err
			}
		}
	}

	return o, nil
}
