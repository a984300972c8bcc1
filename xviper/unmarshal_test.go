package xviper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testUnmarshalSuccess(t *testing.T) {
	var (
		assert = assert.New(t)
		values = []interface{}{"one", "two", "three"}
	)

	for _, v := range [][]interface{}{values[0:1], values[0:2], values} {
		unmarshaler := new(mockUnmarshaler)

		for _, e := range v {
			unmarshaler.On("Unmarshal", e).Return(error(nil)).Once()
		}

		assert.NoError(Unmarshal(unmarshaler, v...))
		unmarshaler.AssertExpectations(t)
	}
}

func testUnmarshalError(t *testing.T) {
	var (
		assert        = assert.New(t)
		expectedError = errors.New("expected")
		unmarshaler   = new(mockUnmarshaler)
	)

	unmarshaler.On("Unmarshal", "one").Return(expectedError).Once()
	assert.Equal(expectedError, Unmarshal(unmarshaler, "one", "two"))
	unmarshaler.AssertExpectations(t)
}

func TestUnmarshal(t *testing.T) {
	t.Run("Success", testUnmarshalSuccess)
	t.Run("Error", testUnmarshalError)
}

func TestUnmarshalKeys(t *testing.T) {
	var (
		assert        = assert.New(t)
		expectedError = errors.New("expected")
		unmarshaler   = new(mockKeyUnmarshaler)
		first, second int
	)

	unmarshaler.On("UnmarshalKey", "first", mock.Anything).Return(error(nil)).Once()
	unmarshaler.On("UnmarshalKey", "second", mock.Anything).Return(expectedError).Once()

	err := UnmarshalKeys(unmarshaler, map[string]interface{}{"first": &first, "second": &second})
	assert.ErrorIs(err, expectedError)
	unmarshaler.AssertExpectations(t)

	assert.NoError(UnmarshalKeys(unmarshaler, nil))
}
