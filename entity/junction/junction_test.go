package junction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/junction"
)

func TestAddSignalValidation(t *testing.T) {
	m := junction.NewSignalController(3)
	assert.ErrorIs(t, m.AddSignal(3, 5, 0), entity.ErrInvalidNode)
	assert.ErrorIs(t, m.AddSignal(1, 0, 0), entity.ErrInvalidDuration)
	require.NoError(t, m.AddSignal(1, 5, 0))

	green, ok := m.IsGreen(1)
	assert.True(t, ok)
	assert.False(t, green)

	_, ok = m.IsGreen(2)
	assert.False(t, ok)
	assert.False(t, m.Override(2, 0))
	assert.False(t, m.ForceRed(2, 0))
}

func TestPeriodicToggle(t *testing.T) {
	m := junction.NewSignalController(1)
	require.NoError(t, m.AddSignal(0, 5, 0))

	toggles := []int32{}
	last, _ := m.IsGreen(0)
	for now := int32(1); now <= 20; now++ {
		m.Advance(now)
		green, _ := m.IsGreen(0)
		if green != last {
			toggles = append(toggles, now)
		}
		last = green
	}
	assert.Equal(t, []int32{5, 10, 15, 20}, toggles)
}

func TestOverrideResetsDwellClock(t *testing.T) {
	m := junction.NewSignalController(1)
	require.NoError(t, m.AddSignal(0, 5, 0))
	m.Advance(1)
	assert.True(t, m.Override(0, 2))
	green, _ := m.IsGreen(0)
	assert.True(t, green)

	for now := int32(3); now < 7; now++ {
		m.Advance(now)
		green, _ := m.IsGreen(0)
		assert.True(t, green, "tick %d", now)
	}
	m.Advance(7)
	green, _ = m.IsGreen(0)
	assert.False(t, green)

	state := m.Snapshot(7)
	require.Len(t, state, 1)
	assert.Equal(t, junction.SignalState{
		Intersection: 0, IsGreen: false, GreenDuration: 5, LastChange: 7, Remaining: 5,
	}, state[0])
}

func TestForceRedLastWriterWins(t *testing.T) {
	m := junction.NewSignalController(2)
	require.NoError(t, m.AddSignal(1, 3, 0))
	m.Override(1, 1)
	m.ForceRed(1, 1)
	green, _ := m.IsGreen(1)
	assert.False(t, green)
	m.Override(1, 1)
	green, _ = m.IsGreen(1)
	assert.True(t, green)
}

func TestReplaceSignalKeepsOrder(t *testing.T) {
	m := junction.NewSignalController(3)
	require.NoError(t, m.AddSignal(2, 4, 0))
	require.NoError(t, m.AddSignal(0, 4, 0))
	require.NoError(t, m.AddSignal(2, 9, 0))
	state := m.Snapshot(0)
	require.Len(t, state, 2)
	assert.Equal(t, int32(2), state[0].Intersection)
	assert.Equal(t, int32(9), state[0].GreenDuration)
	assert.Equal(t, int32(0), state[1].Intersection)
}
