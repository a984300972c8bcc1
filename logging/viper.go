// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"strings"

	"emperror.dev/errors"
	"github.com/spf13/viper"
)

// LoggingKey is the key of the logging subtree in the application configuration.
const LoggingKey = "log"

var levels = map[string]bool{"": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}

// FromViper reads Options from the LoggingKey subtree of an application's configuration.  A nil
// Viper, or one without that subtree, yields the zero Options.  A level other than DEBUG, INFO,
// WARN, or ERROR is rejected rather than silently treated as ERROR.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v == nil || !v.IsSet(LoggingKey) {
		return o, nil
	}

	if err := v.UnmarshalKey(LoggingKey, o); err != nil {
		return nil, errors.WithDetails(errors.WithMessage(err, "invalid logging configuration"), "key", LoggingKey)
	}

	if !levels[strings.ToUpper(o.Level)] {
		return nil, errors.WithDetails(errors.New("unknown log level"), "level", o.Level)
	}

	return o, nil
}
