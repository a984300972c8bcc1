// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xviper

import (
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/xmidt-org/rtsync/clock"
)

const (
	ForeverValue = "forever"
	NoWaitValue  = "nowait"
)

// Timeout converts a configuration value into a blocking-operation timeout.  The strings
// "forever" and "nowait" map onto clock.Forever and clock.NoWait.  Any other value is handled by
// cast, so both duration strings such as "250ms" and integer nanoseconds are accepted.
func Timeout(value interface{}) (time.Duration, error) {
	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case ForeverValue:
			return clock.Forever, nil

		case NoWaitValue:
			return clock.NoWait, nil
		}
	}

	d, err := cast.ToDurationE(value)
	if err != nil {
		return 0, errors.WithDetails(errors.WithMessage(err, "invalid timeout"), "value", value)
	}

	if d < 0 {
		d = clock.Forever
	}

	return d, nil
}

// GetTimeout returns the timeout stored under key, or def if the key is not set.
func GetTimeout(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	if v == nil || !v.IsSet(key) {
		return def, nil
	}

	return Timeout(v.Get(key))
}
