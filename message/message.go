// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// BodySize is the fixed capacity of a Message body, in bytes
const BodySize = 20

// Message is a short text with a count.  It contains no references, so copying a Message
// copies all of its data.
type Message struct {
	Body  [BodySize]byte
	Len   uint8
	Count int32
}

// New creates a Message.  Text beyond BodySize bytes is truncated.
func New(text string, count int32) Message {
	var m Message
	m.Len = uint8(copy(m.Body[:], text))
	m.Count = count
	return m
}

// Text returns the body as a string.
func (m Message) Text() string {
	n := int(m.Len)
	if n > BodySize {
		n = BodySize
	}

	return string(m.Body[:n])
}

func (m Message) String() string {
	return m.Text() + strconv.FormatInt(int64(m.Count), 10)
}

type wireMessage struct {
	Text  string `msgpack:"text"`
	Count int32  `msgpack:"count"`
}

// MarshalMsgpack encodes only the used portion of the body.
func (m Message) MarshalMsgpack() ([]byte, error) {
	return msgpack.Marshal(wireMessage{Text: m.Text(), Count: m.Count})
}

func (m *Message) UnmarshalMsgpack(data []byte) error {
	var w wireMessage
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = New(w.Text, w.Count)
	return nil
}
