package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/road"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/config"
)

const sample = `
intersections: 4
roads:
  - {from: 0, to: 1, weight: 2}
  - {from: 1, to: 2, weight: 3, directed: false}
  - {from: -1, to: 2, weight: 3}
  - {from: 2, to: 0, weight: 0}
vehicles:
  - {id: V1, start: 0, end: 2}
  - {id: "", start: 0, end: 2}
  - {id: V2, start: -3, end: 2}
  - {id: V1, start: 1, end: 0}
emergency_vehicles:
  - {id: E1, start: 2, end: 0, priority: High}
  - {id: E2, start: 2, end: 0, priority: Urgent}
  - {id: V1, start: 2, end: 0, priority: Normal}
signals:
  - {intersection: 1, green_duration: 5}
  - {intersection: 2, green_duration: 0}
closures:
  - {from: 0, to: 1, status: Under Repair}
  - {from: 1, to: 2, status: Flooded}
`

func TestParseSkipsMalformedRecords(t *testing.T) {
	in, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, int32(4), in.Intersections)
	assert.Equal(t, []road.EdgeRecord{
		{From: 0, To: 1, Weight: 2, Directed: true},
		{From: 1, To: 2, Weight: 3, Directed: false},
	}, in.Roads)
	assert.Equal(t, []Trip{{ID: "V1", Start: 0, End: 2}}, in.Vehicles)
	assert.Equal(t, []EmergencyTrip{
		{Trip: Trip{ID: "E1", Start: 2, End: 0}, Priority: entity.PriorityHigh},
	}, in.EmergencyVehicles)
	assert.Equal(t, []Signal{{Intersection: 1, GreenDuration: 5}}, in.Signals)
	assert.Equal(t, []Closure{{From: 0, To: 1, Status: entity.ClosureUnderRepair}}, in.Closures)
}

func TestParseIgnoresNegativeIntersectionCount(t *testing.T) {
	in, err := Parse([]byte("intersections: -2\nroads:\n  - {from: 0, to: 1, weight: 1}\n"))
	require.NoError(t, err)
	assert.Equal(t, int32(0), in.Intersections)
	assert.Len(t, in.Roads, 1)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("lanes: []\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	in, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, in.Roads, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate(t *testing.T) {
	cfg := config.Generator{Count: 200, Seed: 42, EmergencyRatio: 0.25, HighPriorityRatio: 0.5}
	vehicles, emergencies := Generate(6, cfg)
	assert.Len(t, emergencies, 200-len(vehicles))
	assert.NotEmpty(t, vehicles)
	assert.NotEmpty(t, emergencies)

	ids := map[string]struct{}{}
	check := func(tr Trip) {
		assert.NotEqual(t, tr.Start, tr.End)
		assert.True(t, tr.Start >= 0 && tr.Start < 6)
		assert.True(t, tr.End >= 0 && tr.End < 6)
		ids[tr.ID] = struct{}{}
	}
	for _, v := range vehicles {
		check(v)
	}
	for _, e := range emergencies {
		check(e.Trip)
	}
	assert.Len(t, ids, 200)

	again, _ := Generate(6, cfg)
	assert.Equal(t, vehicles, again)
}

func TestGenerateTooSmall(t *testing.T) {
	vehicles, emergencies := Generate(1, config.Generator{Count: 5})
	assert.Empty(t, vehicles)
	assert.Empty(t, emergencies)
}
