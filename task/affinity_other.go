// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package task

import "emperror.dev/errors"

func pin(int) error {
	return errors.New("core affinity is not supported on this platform")
}
