// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"bufio"
	"io"
)

// Scanner reads one Message per line from a byte stream.  Lines end at either '\r' or '\n',
// and empty lines are skipped.  Bytes past BodySize on a line are discarded.  Each Message's Count
// is its position in the stream, starting at 1.
type Scanner struct {
	reader *bufio.Reader
	count  int32
	line   []byte
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		line:   make([]byte, 0, BodySize),
	}
}

// Next returns the next complete line.  A final line without a terminator is still returned.
// Once the stream is exhausted, Next returns io.EOF.
func (s *Scanner) Next() (Message, error) {
	s.line = s.line[:0]
	for {
		c, err := s.reader.ReadByte()
		switch {
		case err == io.EOF && len(s.line) > 0:
			return s.emit(), nil

		case err != nil:
			return Message{}, err

		case c == '\r' || c == '\n':
			if len(s.line) > 0 {
				return s.emit(), nil
			}

		case len(s.line) < BodySize:
			s.line = append(s.line, c)
		}
	}
}

func (s *Scanner) emit() Message {
	s.count++
	return New(string(s.line), s.count)
}
