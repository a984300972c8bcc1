// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"encoding/binary"
	"io"

	"emperror.dev/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// MaxFrameSize is the largest encoded record a Decoder accepts
const MaxFrameSize = 256

// ErrFrameTooLarge indicates a record whose length prefix exceeds MaxFrameSize
var ErrFrameTooLarge = errors.New("message frame too large")

// Encoder writes messages as msgpack records, each preceded by a 4-byte big-endian length.
type Encoder struct {
	w      io.Writer
	header [4]byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(m Message) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return err
	}

	binary.BigEndian.PutUint32(e.header[:], uint32(len(data)))
	if _, err := e.w.Write(e.header[:]); err != nil {
		return err
	}

	if _, err := e.w.Write(data); err != nil {
		return err
	}

	if flusher, ok := e.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}

	return nil
}

// Decoder reads records written by an Encoder.
type Decoder struct {
	r      io.Reader
	header [4]byte
	buffer [MaxFrameSize]byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the next record.  It returns io.EOF only when the stream ends on a record boundary.
func (d *Decoder) Decode() (Message, error) {
	var m Message
	if _, err := io.ReadFull(d.r, d.header[:]); err != nil {
		return m, err
	}

	length := binary.BigEndian.Uint32(d.header[:])
	if length > MaxFrameSize {
		return m, ErrFrameTooLarge
	}

	data := d.buffer[:length]
	if _, err := io.ReadFull(d.r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}

		return m, err
	}

	err := msgpack.Unmarshal(data, &m)
	return m, err
}
