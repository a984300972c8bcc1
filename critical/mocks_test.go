package critical

import (
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/rtsync/intc"
)

type mockMasker struct {
	mock.Mock
}

func (m *mockMasker) Mask(lines ...intc.Line) intc.MaskState {
	arguments := m.Called(lines)
	return arguments.Get(0).(intc.MaskState)
}

func (m *mockMasker) Restore(ms intc.MaskState) {
	m.Called(ms)
}
