package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/randengine"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := randengine.New(42), randengine.New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestDistinctPair(t *testing.T) {
	e := randengine.New(7)
	_, _, ok := e.DistinctPair(1)
	assert.False(t, ok)
	for i := 0; i < 500; i++ {
		a, b, ok := e.DistinctPair(4)
		assert.True(t, ok)
		assert.NotEqual(t, a, b)
		assert.True(t, a >= 0 && a < 4)
		assert.True(t, b >= 0 && b < 4)
	}
}

func TestPTrueBounds(t *testing.T) {
	e := randengine.New(1)
	for i := 0; i < 100; i++ {
		assert.False(t, e.PTrue(0))
		assert.True(t, e.PTrue(1))
	}
}
