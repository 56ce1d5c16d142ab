package roadview

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/roadview/pkg/horizon"
)

func TestAggregateMergesSameDistance(t *testing.T) {
	h := straightRoad(500)
	at(h, 50, horizon.AttrNumberOfLanes, 2)
	at(h, 120, horizon.AttrNumberOfLanes, 3)
	at(h, 120, horizon.AttrCrossingSame, 0)
	at(h, 300, horizon.AttrCrossingBig, 0)

	res := Aggregate(h, h, DefaultAggregateOptions())
	require.Len(t, res.Signs, 4)
	assert.Equal(t, []int{50, 120, 300, 800}, distances(res.Signs))

	s := res.Signs[1]
	assert.Equal(t, CategoryLanesInc, s.Lanes)
	assert.Equal(t, 3, s.LaneCount)
	assert.Equal(t, CategoryCrossing, s.Crossing)
	assert.Equal(t, CrossingFactorSame, s.CrossingSize)
	assert.Equal(t, CrossingUnknown, s.Side)

	big := res.Signs[2]
	assert.Equal(t, CategoryGiveWay, big.Crossing)
	assert.Equal(t, 3, big.LaneCount, "missing count reuses the last one")
	assert.True(t, res.Signs[3].IsSentinel())
	assert.Equal(t, 3, res.Signs[3].LaneCount)
	assert.Equal(t, 3, res.MaxLanes)
	assert.Equal(t, 500, res.PathLengthM)
}

func TestAggregateSentinelOnEmptyStream(t *testing.T) {
	h := straightRoad(700)
	res := Aggregate(h, h, DefaultAggregateOptions())
	require.Len(t, res.Signs, 1)
	assert.Equal(t, 700, res.Signs[0].DistanceM)
	assert.Equal(t, 1, res.Signs[0].LaneCount)
	assert.True(t, res.Signs[0].IsSentinel())
}

func TestAggregateIgnoresBehindAndOffPath(t *testing.T) {
	h := straightRoad(500)
	h.AddLink(horizon.Link{ID: 9, LengthCM: 1000})
	at(h, -20, horizon.AttrCrossingSame, 0)
	at(h, 0, horizon.AttrCrossingSame, 0)
	h.AddSample(horizon.Sample{DistanceCM: 10000, Type: horizon.AttrCrossingSmall, LinkID: 9, Probability: 1})
	at(h, 200, horizon.AttrCrossingSmall, 0)

	res := Aggregate(h, h, DefaultAggregateOptions())
	require.Len(t, res.Signs, 2)
	assert.Equal(t, 200, res.Signs[0].DistanceM)
	assert.Equal(t, CategoryPriorityCrossing, res.Signs[0].Crossing)
	assert.Equal(t, CrossingFactorSmall, res.Signs[0].CrossingSize)
}

func TestAggregateCrossingFactors(t *testing.T) {
	h := straightRoad(500)
	at(h, 100, horizon.AttrCrossingBig, 0)
	opts := DefaultAggregateOptions()
	opts.CrossingBig = 2

	res := Aggregate(h, h, opts)
	assert.Equal(t, 2.0, res.Signs[0].CrossingSize)
}

func TestAggregateLeftHandTraffic(t *testing.T) {
	h := straightRoad(500)
	l := h.Links[1]
	l.LeftHandTraffic = true
	h.Links[1] = l
	at(h, 100, horizon.AttrNumberOfLanes, 2)
	at(h, 200, horizon.AttrNumberOfLanes, 1)

	res := Aggregate(h, h, DefaultAggregateOptions())
	assert.False(t, res.RightHandTraffic)
	assert.Equal(t, CategoryLanesIncRight, res.Signs[0].Lanes)
	assert.Equal(t, CategoryLanesDecRight, res.Signs[1].Lanes)
}

func TestAggregateLaneMarkers(t *testing.T) {
	h := straightRoad(500)
	at(h, 100, horizon.AttrNumberOfLanes, 2)
	at(h, 250, horizon.AttrNumberOfLanes, 2)

	res := Aggregate(h, h, DefaultAggregateOptions())
	var markers []Area
	for _, a := range res.Areas {
		if a.Category.IsLaneChange() {
			markers = append(markers, a)
		}
	}
	require.Len(t, markers, 1, "no marker without a change")
	assert.Equal(t, Area{Category: CategoryLanesInc, StartM: 100, EndM: 100, Number: 2, Duration: true}, markers[0])
}

func TestScanStart(t *testing.T) {
	h := straightRoad(500)
	at(h, -30, horizon.AttrNumberOfLanes, 2)
	at(h, -10, horizon.AttrNumberOfLanes, 4)
	at(h, -5, horizon.AttrTunnel, 0)
	h.AddSample(horizon.Sample{DistanceCM: -200, Type: horizon.AttrRoundabout, LinkID: 1})

	st := ScanStart(h, h.MostProbablePath())
	assert.Equal(t, Start{Lanes: 2, InTunnel: true}, st, "furthest lane count wins, zero probability ignored")
}

func TestAggregateTunnelStartedBehind(t *testing.T) {
	h := straightRoad(500)
	at(h, -5, horizon.AttrTunnel, 0)
	at(h, 100, horizon.AttrTunnel, 0)
	at(h, 200, horizon.AttrNumberOfLanes, 2)

	res := Aggregate(h, h, DefaultAggregateOptions())
	require.Len(t, res.Spans, 1)
	sp := res.Spans[0]
	assert.Equal(t, CategoryTunnel, sp.Category)
	assert.Equal(t, 0, sp.StartM)
	assert.Equal(t, 200, sp.EndM)
	assert.Equal(t, 2, sp.Width)
	assert.True(t, res.Start.InTunnel)
}

func TestAggregateOpenRoundabout(t *testing.T) {
	h := straightRoad(500)
	at(h, 100, horizon.AttrRoundabout, 0)
	at(h, 300, horizon.AttrRoundabout, 0)

	res := Aggregate(h, h, DefaultAggregateOptions())
	require.Len(t, res.Spans, 1)
	assert.Equal(t, 100, res.Spans[0].StartM)
	assert.True(t, res.Spans[0].Open())
	assert.Contains(t, res.Areas, res.Spans[0])
}

func TestAggregateSecondTunnel(t *testing.T) {
	h := straightRoad(900)
	at(h, -5, horizon.AttrTunnel, 0)
	at(h, 100, horizon.AttrTunnel, 0)
	at(h, 200, horizon.AttrNumberOfLanes, 2)
	at(h, 400, horizon.AttrTunnel, 0)
	at(h, 600, horizon.AttrNumberOfLanes, 1)

	res := Aggregate(h, h, DefaultAggregateOptions())
	require.Len(t, res.Spans, 2)
	assert.Equal(t, [2]int{0, 200}, [2]int{res.Spans[0].StartM, res.Spans[0].EndM})
	assert.Equal(t, [2]int{400, 600}, [2]int{res.Spans[1].StartM, res.Spans[1].EndM})
}

// TestAggregateInvariants checks ordering, coverage and de-duplication on
// generated streams.
func TestAggregateInvariants(t *testing.T) {
	types := []horizon.AttrType{
		horizon.AttrNumberOfLanes,
		horizon.AttrCrossingSame,
		horizon.AttrCrossingSmall,
		horizon.AttrCrossingBig,
		horizon.AttrTunnel,
		horizon.AttrRoundabout,
		horizon.AttrTSSpeedLimit,
		horizon.AttrTSStop,
		horizon.AttrTSPedestrianCrosswalk,
	}
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		h := horizon.New()
		var path []horizon.LinkID
		for id := horizon.LinkID(1); id <= 3; id++ {
			h.AddLink(horizon.Link{ID: id, LengthCM: (100 + rng.Intn(400)) * 100, Probability: 1})
			path = append(path, id)
		}
		h.SetPath(path...)
		for i := 0; i < 30; i++ {
			h.AddSample(horizon.Sample{
				DistanceCM:  rng.Intn(120000) - 5000,
				Type:        types[rng.Intn(len(types))],
				Info:        uint32(1 + rng.Intn(4)),
				LinkID:      path[rng.Intn(len(path))],
				LengthCM:    rng.Intn(20000),
				Probability: 1,
				IsStart:     rng.Intn(2) == 0,
			})
		}

		res := Aggregate(h, h, DefaultAggregateOptions())
		require.NotEmpty(t, res.Signs)
		for i := 1; i < len(res.Signs); i++ {
			require.LessOrEqual(t, res.Signs[i-1].DistanceM, res.Signs[i].DistanceM, "round %d: signs unsorted", round)
		}
		last := res.Signs[len(res.Signs)-1]
		require.GreaterOrEqual(t, last.DistanceM, h.PathLengthCM()/100, "round %d: path not covered", round)
		for i := 1; i < len(res.Areas); i++ {
			a, b := res.Areas[i-1], res.Areas[i]
			require.False(t, a.StartM == b.StartM && a.Category == b.Category, "round %d: duplicate area %v", round, b)
			require.False(t, b.Less(a), "round %d: areas unsorted", round)
		}
		for _, s := range res.Signs {
			require.Positive(t, s.LaneCount, "round %d: lane count undefined at %d m", round, s.DistanceM)
		}
	}
}
