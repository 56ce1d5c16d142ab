package roadview

import (
	"slices"

	"github.com/ha1tch/roadview/pkg/horizon"
)

// Crossing width factors, relative to the road width.
const (
	CrossingFactorSame  = 1.0
	CrossingFactorSmall = 0.5
	CrossingFactorBig   = 1.5
)

// AggregateOptions tunes the aggregation pass.
type AggregateOptions struct {
	CrossingSame  float64
	CrossingSmall float64
	CrossingBig   float64
}

// DefaultAggregateOptions returns the standard crossing factors.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{
		CrossingSame:  CrossingFactorSame,
		CrossingSmall: CrossingFactorSmall,
		CrossingBig:   CrossingFactorBig,
	}
}

// Start describes the road at the current position.
type Start struct {
	Lanes        int
	InTunnel     bool
	InRoundabout bool
}

// Result is the immutable outcome of one aggregation pass.
type Result struct {
	// Signs is sorted by distance and ends with a record covering the
	// whole path.
	Signs []Sign
	// Spans holds the tunnel and roundabout windows, sorted.
	Spans []Area
	// Areas merges spans, lane markers and roadside signs, sorted and
	// de-duplicated.
	Areas            []Area
	Start            Start
	MaxLanes         int
	RightHandTraffic bool
	PathLengthM      int
}

// ScanStart looks behind the current position for the lane count and the
// tunnel or roundabout the vehicle is in. Only path samples with a non-zero
// probability count; the furthest one behind wins.
func ScanStart(attrs horizon.Attributes, mpp []horizon.LinkID) Start {
	st := Start{Lanes: 1}
	for i := attrs.Len() - 1; i >= 0; i-- {
		dist, prob, s := attrs.Nearest(i)
		if dist >= 0 || prob == 0 || !slices.Contains(mpp, s.LinkID) {
			continue
		}
		switch s.Type {
		case horizon.AttrNumberOfLanes:
			if n := int(s.Info & 0xFFFF); n > 0 {
				st.Lanes = n
			}
		case horizon.AttrTunnel:
			st.InTunnel = true
		case horizon.AttrRoundabout:
			st.InRoundabout = true
		}
	}
	return st
}

type laneHint struct {
	category Category
	count    int
}

type crossingHint struct {
	category   Category
	size       float64
	side       CrossingSide
	prohibited ProhibitedSide
}

type areaWindow struct {
	category Category
	startM   int
	// inArea is set while the window started behind the position.
	inArea         bool
	tunnelSeen     bool
	roundaboutSeen bool
	continued      bool
	maxLanes       int
}

// fold carries the state of the forward scan over the samples.
type fold struct {
	opts      AggregateOptions
	links     horizon.Links
	mpp       []horizon.LinkID
	start     Start
	rightHand bool

	lanes    laneHint
	crossing crossingHint
	linkID   horizon.LinkID
	linkLenM int

	prevLanes int
	lastLanes int
	maxLanes  int
	prevDistM int

	area areaWindow

	signs   []Sign
	spans   []Area
	markers []Area
}

func (f *fold) pending() bool {
	return f.lanes.category != CategoryInvalid || f.crossing.category != CategoryInvalid
}

// flushHint emits the pending lane or crossing hint at distM.
func (f *fold) flushHint(distM int) {
	if f.lanes.count == 0 {
		f.lanes.count = f.lastLanes
	}
	f.signs = append(f.signs, Sign{
		Lanes:        f.lanes.category,
		LaneCount:    f.lanes.count,
		Crossing:     f.crossing.category,
		CrossingSize: f.crossing.size,
		DistanceM:    distM,
		Side:         f.crossing.side,
		Prohibited:   f.crossing.prohibited,
		LinkID:       f.linkID,
	})
	if f.lanes.category != CategoryInvalid {
		f.markers = append(f.markers, Area{
			Category: f.lanes.category,
			StartM:   distM,
			EndM:     distM,
			Number:   f.lanes.count,
			Duration: true,
		})
	}
	f.lastLanes = f.lanes.count
	f.lanes = laneHint{}
	f.crossing = crossingHint{}
}

func (f *fold) active() bool {
	return f.area.inArea || f.area.startM != 0
}

func (f *fold) flushArea(endM int) {
	f.spans = append(f.spans, Area{
		Category: f.area.category,
		StartM:   f.area.startM,
		EndM:     endM,
		Width:    max(f.area.maxLanes, f.prevLanes),
		Duration: true,
	})
	f.area.startM = 0
	f.area.maxLanes = 0
	f.area.inArea = false
}

// closeGroup runs when the distance changes: it closes the area window
// unless the previous group continued it, then flushes the pending hint.
func (f *fold) closeGroup() {
	if f.area.continued {
		f.area.continued = false
	} else if f.active() {
		f.flushArea(f.prevDistM)
	}
	if f.pending() {
		f.flushHint(f.prevDistM)
	}
}

func (f *fold) step(distM int, s horizon.Sample) {
	if distM != f.prevDistM && f.prevDistM != 0 {
		f.closeGroup()
	}

	switch s.Type {
	case horizon.AttrNumberOfLanes:
		n := int(s.Info & 0xFFFF)
		f.lanes.category = laneChange(f.prevLanes, n, f.rightHand)
		f.lanes.count = n
		f.prevLanes = n
		if n > f.maxLanes {
			f.maxLanes = n
		}
		if n > f.area.maxLanes {
			f.area.maxLanes = n
		}
		f.linkID = s.LinkID
		f.linkLenM = s.LengthCM / 100

	case horizon.AttrCrossingSame, horizon.AttrCrossingSmall, horizon.AttrCrossingBig:
		f.crossing.category, f.crossing.size = f.crossingKind(s.Type)
		f.crossing.side, f.crossing.prohibited = ResolveCrossingSide(f.links, s.LinkID, f.mpp, f.crossing.prohibited)
		f.linkID = s.LinkID

	case horizon.AttrTunnel, horizon.AttrRoundabout:
		f.area.category = CategoryTunnel
		startIn, seen := f.start.InTunnel, &f.area.tunnelSeen
		if s.Type == horizon.AttrRoundabout {
			f.area.category = CategoryRoundabout
			startIn, seen = f.start.InRoundabout, &f.area.roundaboutSeen
		}
		// Only the first window of a kind can have started behind us.
		if !*seen {
			*seen = true
			f.area.inArea = startIn && f.area.startM == 0
		}
		if f.area.startM == 0 && !f.area.inArea {
			f.area.startM = distM
		}
		f.area.continued = true
	}

	f.prevDistM = distM
}

func (f *fold) crossingKind(t horizon.AttrType) (Category, float64) {
	switch t {
	case horizon.AttrCrossingSmall:
		return CategoryPriorityCrossing, f.opts.CrossingSmall
	case horizon.AttrCrossingBig:
		return CategoryGiveWay, f.opts.CrossingBig
	}
	return CategoryCrossing, f.opts.CrossingSame
}

// finish flushes what is still pending and closes the sign list so that
// it reaches the end of the path.
func (f *fold) finish(pathLenM int) {
	if f.pending() {
		f.flushHint(f.prevDistM)
	}
	end := f.prevDistM + f.linkLenM
	if pathLenM > end {
		end = pathLenM
	}
	if len(f.signs) == 0 || f.signs[len(f.signs)-1].DistanceM < end {
		count := f.lastLanes
		if f.lanes.count != 0 {
			count = f.lanes.count
		}
		f.signs = append(f.signs, Sign{
			LaneCount: count,
			DistanceM: end,
			LinkID:    f.linkID,
		})
	}
	if f.active() {
		if f.area.continued {
			f.flushArea(0)
		} else {
			f.flushArea(f.prevDistM)
		}
	}
}

func laneChange(prev, next int, rightHand bool) Category {
	switch {
	case next == prev:
		return CategoryInvalid
	case next > prev && rightHand:
		return CategoryLanesInc
	case next > prev:
		return CategoryLanesIncRight
	case rightHand:
		return CategoryLanesDec
	}
	return CategoryLanesDecRight
}

// Aggregate walks the samples on the most probable path and produces the
// sign and area lists of one layout pass.
func Aggregate(attrs horizon.Attributes, links horizon.Links, opts AggregateOptions) Result {
	mpp := links.MostProbablePath()
	rightHand := true
	pathLenCM := 0
	for i, id := range mpp {
		l, ok := links.LinkByID(id)
		if !ok {
			continue
		}
		if i == 0 {
			rightHand = l.DrivingSideIsRight()
		}
		pathLenCM += l.LengthCM
	}

	start := ScanStart(attrs, mpp)
	f := &fold{
		opts:      opts,
		links:     links,
		mpp:       mpp,
		start:     start,
		rightHand: rightHand,
		prevLanes: start.Lanes,
		lastLanes: start.Lanes,
		maxLanes:  start.Lanes,
	}

	for i := 0; i < attrs.Len(); i++ {
		distCM, _, s := attrs.Nearest(i)
		distM := distCM / 100
		if distM <= 0 || !slices.Contains(mpp, s.LinkID) {
			continue
		}
		f.step(distM, s)
	}
	f.finish(pathLenCM / 100)

	SortSigns(f.signs)
	SortAreas(f.spans)

	areas := make([]Area, 0, len(f.markers)+len(f.spans))
	areas = append(areas, f.markers...)
	areas = append(areas, f.spans...)
	areas = append(areas, TrafficSignAreas(attrs, mpp, f.maxLanes)...)
	SortAreas(areas)
	areas = DedupeAreas(areas)

	res := Result{
		Signs:            f.signs,
		Spans:            f.spans,
		Areas:            areas,
		Start:            start,
		MaxLanes:         f.maxLanes,
		RightHandTraffic: rightHand,
		PathLengthM:      pathLenCM / 100,
	}
	Logger().Debug("aggregated horizon",
		"signs", len(res.Signs),
		"areas", len(res.Areas),
		"spans", len(res.Spans),
		"start_lanes", start.Lanes,
		"path_m", res.PathLengthM)
	return res
}
