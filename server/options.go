// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// ServerKey is the Viper subkey under which server options are stored.
	ServerKey = "server"

	DefaultAddress           = ":8080"
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute
)

// Options configures the HTTP server
type Options struct {
	// Address is the listen address.  If unset, DefaultAddress is used.
	Address string `json:"address"`

	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

func (o *Options) address() string {
	if o != nil && len(o.Address) > 0 {
		return o.Address
	}

	return DefaultAddress
}

func (o *Options) readHeaderTimeout() time.Duration {
	if o != nil && o.ReadHeaderTimeout > 0 {
		return o.ReadHeaderTimeout
	}

	return DefaultReadHeaderTimeout
}

func (o *Options) idleTimeout() time.Duration {
	if o != nil && o.IdleTimeout > 0 {
		return o.IdleTimeout
	}

	return DefaultIdleTimeout
}

// Sub returns the standard child Viper, using ServerKey.  If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(ServerKey)
	}

	return nil
}

// FromViper produces an Options from a (possibly nil) Viper instance.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		if err := v.Unmarshal(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}
