// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package message provides Message, a fixed-size text payload that can be copied through a queue,
together with the framing used to read messages from a byte stream and to carry them over
a pipe as length-prefixed msgpack records.
*/
package message
