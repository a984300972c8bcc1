// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package queue

import (
	"reflect"

	"github.com/xmidt-org/rtsync/xerrors"
)

// checkElement verifies that values of t are self-contained, so that a plain assignment
// produces an independent copy.
func checkElement(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.Interface:
		return xerrors.Exhausted("queue elements must be fixed-size values", "type", t.String(), "kind", t.Kind().String())

	case reflect.Array:
		return checkElement(t.Elem())

	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := checkElement(t.Field(i).Type); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkElementOf[T any]() error {
	return checkElement(reflect.TypeOf((*T)(nil)).Elem())
}
