// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xviper

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Configer is the subset of Viper behavior dealing with configuration paths and locations
type Configer interface {
	AddConfigPath(string)
	SetConfigName(string)
	SetConfigFile(string)
}

// AddStandardConfigPaths adds /etc/<app>, $HOME/.<app>, and the working directory, followed by
// any extra paths, in that search order.
func AddStandardConfigPaths(c Configer, applicationName string, extra ...string) {
	paths := append(
		[]string{
			fmt.Sprintf("/etc/%s", applicationName),
			fmt.Sprintf("$HOME/.%s", applicationName),
			".",
		},
		extra...,
	)

	for _, p := range paths {
		c.AddConfigPath(p)
	}
}

// FlagLookup is the behavior expected of a pflag.FlagSet to lookup individual flags by longhand name.
type FlagLookup interface {
	Lookup(string) *pflag.Flag
}

// Binding describes which source BindConfig chose for the configuration.
type Binding int

const (
	// Unbound means neither flag carried a value, so the Configer was not changed.
	Unbound Binding = iota

	// BoundName means the configuration name was set and Viper searches the config paths for it.
	BoundName

	// BoundFile means an explicit configuration file was set.
	BoundFile
)

func (b Binding) String() string {
	switch b {
	case Unbound:
		return "unbound"
	case BoundName:
		return "name"
	case BoundFile:
		return "file"
	default:
		return "invalid"
	}
}

// flagValue returns the value of the named flag, or false if the flag is undefined or empty.
func flagValue(fl FlagLookup, name string) (string, bool) {
	f := fl.Lookup(name)
	if f == nil {
		return "", false
	}

	value := f.Value.String()
	return value, len(value) > 0
}

// BindConfig chooses the configuration source from a flagset.  A non-empty fileFlag wins and is
// passed to SetConfigFile.  Otherwise a non-empty nameFlag is passed to SetConfigName.  Flags that
// are not defined in the flagset count as empty.
func BindConfig(c Configer, fl FlagLookup, fileFlag, nameFlag string) Binding {
	if file, ok := flagValue(fl, fileFlag); ok {
		c.SetConfigFile(file)
		return BoundFile
	}

	if name, ok := flagValue(fl, nameFlag); ok {
		c.SetConfigName(name)
		return BoundName
	}

	return Unbound
}
