package message

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/rtsync/queue"
)

func ExampleNew() {
	m := New("Blinked: ", 100)
	fmt.Println(m)

	// Output:
	// Blinked: 100
}

func TestNew(t *testing.T) {
	testData := []struct {
		text     string
		expected string
	}{
		{"", ""},
		{"hello", "hello"},
		{"exactly twenty bytes", "exactly twenty bytes"},
		{"this text is longer than the body", "this text is longer "},
	}

	for _, record := range testData {
		t.Run(fmt.Sprintf("%q", record.text), func(t *testing.T) {
			assert := assert.New(t)
			m := New(record.text, 7)
			assert.Equal(record.expected, m.Text())
			assert.Equal(len(record.expected), int(m.Len))
			assert.Equal(int32(7), m.Count)
			assert.Equal(record.expected+"7", m.String())
		})
	}
}

func TestMessageCopy(t *testing.T) {
	assert := assert.New(t)
	original := New("original", 1)
	copied := original
	copied.Body[0] = 'O'
	copied.Count = 2

	assert.Equal("original", original.Text())
	assert.Equal(int32(1), original.Count)
	assert.Equal("Original", copied.Text())
}

func TestMessageQueueElement(t *testing.T) {
	assert := assert.New(t)
	q, err := queue.New[Message](2)
	assert.NoError(err)
	if assert.NotNil(q) {
		m := New("queued", 3)
		assert.NoError(q.TrySend(m))
		m.Body[0] = 'Q'

		received, ok := q.TryReceive()
		assert.True(ok)
		assert.Equal("queued", received.Text())
	}
}

func TestTextInvalidLength(t *testing.T) {
	m := New("abc", 0)
	m.Len = 255
	assert.Len(t, m.Text(), BodySize)
}
