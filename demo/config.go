// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"time"

	"github.com/spf13/viper"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/task"
	"github.com/xmidt-org/rtsync/xviper"
)

const (
	// DemoKey is the Viper subkey under which demo configuration is stored.
	DemoKey = "demo"

	DefaultTasks      = 5
	DefaultIterations = 1000
	DefaultPeriod     = 100 * time.Millisecond
	DefaultDelay      = 2 * time.Second
	DefaultJitter     = 500 * time.Microsecond
	DefaultCapacity   = 5
	DefaultLine       = intc.Line(1)
	DefaultBlinks     = 100
	DefaultBlinkDelay = 500 * time.Millisecond
	DefaultText       = "All your base"
	DefaultTimeout    = clock.Forever
)

// Config holds the tunables shared by the scenarios.  A nil Config uses the defaults.
type Config struct {
	// Tasks is the number of worker tasks a scenario starts.
	Tasks int `json:"tasks"`

	// Iterations is the number of increments each MutexCounter task performs.
	Iterations int `json:"iterations"`

	// Period is the alarm period for the interrupt scenarios.
	Period time.Duration `json:"period"`

	// Delay is how long a draining task sleeps between passes.
	Delay time.Duration `json:"delay"`

	// Jitter is the upper bound of the random delay inside a read-modify-write.
	Jitter time.Duration `json:"jitter"`

	// Capacity is the queue capacity.
	Capacity int `json:"capacity"`

	// Line is the interrupt line the interrupt scenarios attach to.
	Line intc.Line `json:"line"`

	// Limit stops a scenario after this many results.  Zero runs until canceled.
	Limit int `json:"limit"`

	// Blinks is the number of blinks between relay status messages.
	Blinks int `json:"blinks"`

	// BlinkDelay is the initial blink delay of the relay.
	BlinkDelay time.Duration `json:"blinkDelay"`

	// Text is the message text passed to rendezvous tasks.
	Text string `json:"text"`

	// Pin controls whether scenario tasks are pinned to Core.
	Pin  bool `json:"pin"`
	Core int  `json:"core"`

	// Timeout bounds blocking takes, sends, and receives.  It is parsed with xviper.Timeout,
	// so "forever", "nowait", and duration strings are accepted.  The default is forever.
	Timeout string `json:"timeout"`
}

func positive[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}

	return def
}

func (c *Config) tasks() int {
	if c != nil {
		return positive(c.Tasks, DefaultTasks)
	}

	return DefaultTasks
}

func (c *Config) iterations() int {
	if c != nil {
		return positive(c.Iterations, DefaultIterations)
	}

	return DefaultIterations
}

func (c *Config) period() time.Duration {
	if c != nil {
		return positive(c.Period, DefaultPeriod)
	}

	return DefaultPeriod
}

func (c *Config) delay() time.Duration {
	if c != nil {
		return positive(c.Delay, DefaultDelay)
	}

	return DefaultDelay
}

func (c *Config) jitter() time.Duration {
	if c != nil {
		return positive(c.Jitter, DefaultJitter)
	}

	return DefaultJitter
}

func (c *Config) capacity() int {
	if c != nil {
		return positive(c.Capacity, DefaultCapacity)
	}

	return DefaultCapacity
}

func (c *Config) line() intc.Line {
	if c != nil && c.Line > 0 {
		return c.Line
	}

	return DefaultLine
}

func (c *Config) limit() int {
	if c != nil && c.Limit > 0 {
		return c.Limit
	}

	return 0
}

func (c *Config) blinks() int {
	if c != nil {
		return positive(c.Blinks, DefaultBlinks)
	}

	return DefaultBlinks
}

func (c *Config) blinkDelay() time.Duration {
	if c != nil {
		return positive(c.BlinkDelay, DefaultBlinkDelay)
	}

	return DefaultBlinkDelay
}

func (c *Config) text() string {
	if c != nil && len(c.Text) > 0 {
		return c.Text
	}

	return DefaultText
}

func (c *Config) spec(name string) task.Spec {
	s := task.NewSpec(name)
	if c != nil && c.Pin {
		s.Core = c.Core
	}

	return s
}

func (c *Config) timeout() time.Duration {
	if c != nil && len(c.Timeout) > 0 {
		if d, err := xviper.Timeout(c.Timeout); err == nil {
			return d
		}
	}

	return DefaultTimeout
}

// Sub returns the standard child Viper, using DemoKey.  If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(DemoKey)
	}

	return nil
}

// FromViper produces a Config from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if v != nil {
		if err := v.Unmarshal(c); err != nil {
			return nil, err
		}
	}

	if len(c.Timeout) > 0 {
		if _, err := xviper.Timeout(c.Timeout); err != nil {
			return nil, err
		}
	}

	return c, nil
}
