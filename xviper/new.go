// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xviper

import (
	"strings"

	"emperror.dev/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultNameFlag = "name"
	DefaultFileFlag = "file"
)

// ConfigureFlagSet adds the standard file and name flags to a FlagSet.
func ConfigureFlagSet(applicationName string, fs *pflag.FlagSet) {
	fs.StringP(DefaultFileFlag, "f", "", "the fully-qualified path to the configuration file")
	fs.StringP(DefaultNameFlag, "n", applicationName, "the name of the configuration file to search for")
}

// New creates a Viper for an application whose flags have already been parsed.  The standard
// configuration paths are searched, environment variables prefixed with the application name
// override configuration, and every flag is bound.
//
// A missing configuration file is not an error unless one was named explicitly with the file flag.
func New(applicationName string, fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	AddStandardConfigPaths(v, applicationName)
	v.SetConfigName(applicationName)
	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	explicit := BindConfig(v, fs, DefaultFileFlag, DefaultNameFlag) == BoundFile

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (explicit || !errors.As(err, &notFound)) {
		return nil, errors.WithDetails(errors.WithMessage(err, "unable to read configuration"), "file", v.ConfigFileUsed())
	}

	return v, nil
}
