package road_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/road"
)

func TestAddEdgeValidation(t *testing.T) {
	g := road.NewNetwork(3)
	assert.ErrorIs(t, g.AddEdge(0, 3, 1, true), entity.ErrInvalidNode)
	assert.ErrorIs(t, g.AddEdge(-1, 0, 1, true), entity.ErrInvalidNode)
	assert.ErrorIs(t, g.AddEdge(0, 1, 0, true), entity.ErrInvalidWeight)
	assert.Equal(t, 0, g.NumEdges())

	require.NoError(t, g.AddEdge(0, 1, 4, false))
	assert.Equal(t, []road.Edge{{From: 0, To: 1, Weight: 4}}, g.Edges(0))
	assert.Equal(t, []road.Edge{{From: 1, To: 0, Weight: 4}}, g.Edges(1))
	assert.Nil(t, g.Edges(7))
}

func TestEdgesKeepInsertionOrder(t *testing.T) {
	g := road.NewNetwork(4)
	require.NoError(t, g.AddEdge(0, 3, 1, true))
	require.NoError(t, g.AddEdge(0, 1, 5, true))
	require.NoError(t, g.AddEdge(0, 2, 2, true))
	require.NoError(t, g.AddEdge(0, 1, 1, true))

	tos := []int32{}
	for _, e := range g.Edges(0) {
		tos = append(tos, e.To)
	}
	assert.Equal(t, []int32{3, 1, 2, 1}, tos)

	w, ok := g.Weight(0, 1)
	assert.True(t, ok)
	assert.Equal(t, int32(5), w)
	_, ok = g.Weight(1, 0)
	assert.False(t, ok)
}

func TestBuildNetwork(t *testing.T) {
	g, err := road.BuildNetwork([]road.EdgeRecord{
		{From: 0, To: 1, Weight: 2, Directed: true},
		{From: 1, To: 4, Weight: 3, Directed: false},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), g.NumNodes())
	assert.Equal(t, 3, g.NumEdges())

	_, err = road.BuildNetwork([]road.EdgeRecord{{From: 0, To: 1, Weight: 0, Directed: true}})
	assert.ErrorIs(t, err, entity.ErrInvalidWeight)
	_, err = road.BuildNetwork([]road.EdgeRecord{{From: -2, To: 1, Weight: 1, Directed: true}})
	assert.ErrorIs(t, err, entity.ErrInvalidNode)
}

func TestBuildSizedNetworkKeepsIsolatedIntersections(t *testing.T) {
	g, err := road.BuildSizedNetwork(4, []road.EdgeRecord{{From: 0, To: 1, Weight: 1, Directed: true}})
	require.NoError(t, err)
	assert.Equal(t, int32(4), g.NumNodes())
	assert.True(t, g.Valid(3))
	assert.Empty(t, g.Edges(3))

	// 道路下标超出给定数量时以道路为准
	g, err = road.BuildSizedNetwork(2, []road.EdgeRecord{{From: 0, To: 5, Weight: 1, Directed: true}})
	require.NoError(t, err)
	assert.Equal(t, int32(6), g.NumNodes())
}

func TestComponents(t *testing.T) {
	g, err := road.BuildNetwork([]road.EdgeRecord{
		{From: 0, To: 1, Weight: 1, Directed: true},
		{From: 1, To: 0, Weight: 1, Directed: true},
		{From: 1, To: 2, Weight: 1, Directed: true},
		{From: 2, To: 2, Weight: 1, Directed: true},
		{From: 3, To: 4, Weight: 1, Directed: false},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int32{{0, 1}, {2}, {3, 4}}, g.Components())

	ring, err := road.BuildNetwork([]road.EdgeRecord{
		{From: 0, To: 1, Weight: 1, Directed: true},
		{From: 1, To: 2, Weight: 1, Directed: true},
		{From: 2, To: 0, Weight: 1, Directed: true},
	})
	require.NoError(t, err)
	assert.Len(t, ring.Components(), 1)
}

func TestCongestionTracker(t *testing.T) {
	c := road.NewCongestionTracker(0)
	assert.Equal(t, int32(road.DefaultCongestionThreshold), c.Threshold())

	c.Leave(0, 1)
	assert.Equal(t, int32(0), c.Count(0, 1))

	c.Enter(0, 1)
	c.Enter(0, 1)
	assert.False(t, c.IsCongested(0, 1))
	c.Enter(0, 1)
	assert.True(t, c.IsCongested(0, 1))
	assert.False(t, c.IsCongested(1, 0))

	c.Leave(0, 1)
	c.Leave(0, 1)
	c.Leave(0, 1)
	c.Leave(0, 1)
	assert.Equal(t, int32(0), c.Count(0, 1))
	assert.Empty(t, c.Snapshot())
}

func TestCongestionConservation(t *testing.T) {
	c := road.NewCongestionTracker(3)
	enters, leaves := 0, 0
	for i := 0; i < 20; i++ {
		c.Enter(2, 3)
		enters++
		if i%3 == 0 {
			c.Leave(2, 3)
			leaves++
		}
	}
	assert.Equal(t, int32(enters-leaves), c.Count(2, 3))
	assert.Equal(t, map[entity.Segment]int32{{From: 2, To: 3}: int32(enters - leaves)}, c.Snapshot())
}

func TestClosureRegistry(t *testing.T) {
	g := road.NewNetwork(3)
	r := road.NewClosureRegistry(g, 10)

	assert.ErrorIs(t, r.SetStatus(0, 5, entity.ClosureBlocked, 0), entity.ErrInvalidNode)
	assert.False(t, r.IsBlocked(0, 1, 0))
	assert.Equal(t, entity.ClosureClear, r.Status(0, 1, 0))

	require.NoError(t, r.SetStatus(0, 1, entity.ClosureBlocked, 0))
	assert.True(t, r.IsBlocked(0, 1, 1000))
	assert.Equal(t, entity.ClosureBlocked, r.Status(0, 1, 1000))

	require.NoError(t, r.SetStatus(1, 2, entity.ClosureUnderRepair, 5))
	assert.True(t, r.IsBlocked(1, 2, 5))
	assert.True(t, r.IsBlocked(1, 2, 14))
	assert.Equal(t, int32(1), r.Remaining(1, 2, 14))
	assert.False(t, r.IsBlocked(1, 2, 15))
	assert.Equal(t, entity.ClosureClear, r.Status(1, 2, 15))
	assert.Equal(t, map[entity.Segment]entity.ClosureStatus{{From: 0, To: 1}: entity.ClosureBlocked}, r.Snapshot(15))

	require.NoError(t, r.SetStatus(0, 1, entity.ClosureClear, 20))
	assert.False(t, r.IsBlocked(0, 1, 20))
}

func TestIsBlockedIdempotent(t *testing.T) {
	g := road.NewNetwork(2)
	r := road.NewClosureRegistry(g, 0)
	require.NoError(t, r.SetStatus(0, 1, entity.ClosureUnderRepair, 0))
	for now := int32(0); now < 15; now++ {
		assert.Equal(t, r.IsBlocked(0, 1, now), r.IsBlocked(0, 1, now))
	}
}
