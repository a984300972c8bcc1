// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xviper

import (
	"emperror.dev/errors"
	"github.com/spf13/viper"
)

// Unmarshaler is the Viper behavior for unmarshaling the whole configuration
type Unmarshaler interface {
	Unmarshal(interface{}, ...viper.DecoderConfigOption) error
}

// KeyUnmarshaler is the Viper behavior for unmarshaling a single key
type KeyUnmarshaler interface {
	UnmarshalKey(string, interface{}, ...viper.DecoderConfigOption) error
}

// Unmarshal unmarshals the configuration into each value in turn, stopping at the first error.
func Unmarshal(u Unmarshaler, v ...interface{}) error {
	var err error
	for i := 0; err == nil && i < len(v); i++ {
		err = u.Unmarshal(v[i])
	}

	return err
}

// UnmarshalKeys unmarshals each key into its corresponding value.  Every key is attempted, and
// the returned error names each key that failed.
func UnmarshalKeys(u KeyUnmarshaler, keys map[string]interface{}) error {
	var err error
	for key, value := range keys {
		if keyErr := u.UnmarshalKey(key, value); keyErr != nil {
			err = errors.Append(err, errors.WithDetails(keyErr, "key", key))
		}
	}

	return err
}
