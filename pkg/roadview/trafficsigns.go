package roadview

import (
	"slices"

	"github.com/ha1tch/roadview/pkg/horizon"
)

// laneNumber derives the advisory number of a lane sign from the lane count
// of the sample's link (see LaneCount).
type laneNumber func(lanes int) int

type signRule struct {
	category Category
	// ended replaces category when the sample closes a restriction.
	ended  Category
	number bool // carry the sample's number (slope, speed)
	lanes  laneNumber
	// signal marks a traffic signal rather than a posted sign: no
	// validity window, not a real sign.
	signal bool
	// synthetic marks a record that is not a posted sign.
	synthetic bool
}

var signRules = map[horizon.AttrType]signRule{
	horizon.AttrTSPedestrianXing:          {category: CategoryPedestrian},
	horizon.AttrTSPedestrianCrosswalk:     {category: CategoryPedestrianCrossing},
	horizon.AttrTSTrafficLight:            {category: CategoryTrafficLight, signal: true},
	horizon.AttrTSTrafficLightSign:        {category: CategoryTrafficLight},
	horizon.AttrTSRightOfWayRoad:          {category: CategoryRightOfWay},
	horizon.AttrTSRightOfWayCrossing:      {category: CategoryPriorityCrossing},
	horizon.AttrTSEndOfTown:               {category: CategoryUrbanAreaEnd},
	horizon.AttrTSEqualIntersection:       {category: CategoryCrossing},
	horizon.AttrTSYield:                   {category: CategoryGiveWay},
	horizon.AttrTSStop:                    {category: CategoryStop},
	horizon.AttrTSWarning:                 {category: CategoryWarning},
	horizon.AttrTSSharpCurveLeft:          {category: CategoryLeftTurn},
	horizon.AttrTSSharpCurveRight:         {category: CategoryRightTurn},
	horizon.AttrTSSCurveLeft:              {category: CategorySCurveLeft},
	horizon.AttrTSSCurveRight:             {category: CategorySCurveRight},
	horizon.AttrTSUnevenRoad:              {category: CategoryUnevenRoad},
	horizon.AttrTSIcyRoad:                 {category: CategoryIcyRoad},
	horizon.AttrTSSlipperyRoad:            {category: CategorySlipperyRoad},
	horizon.AttrTSFallingRocks:            {category: CategoryFallingRocks},
	horizon.AttrTSRoadNarrowingLeft:       {category: CategoryRoadNarrowingLeft},
	horizon.AttrTSRoadNarrowingRight:      {category: CategoryRoadNarrowingRight},
	horizon.AttrTSRoadNarrowingBothSides:  {category: CategoryRoadNarrowingBothSides},
	horizon.AttrTSTrafficCongestion:       {category: CategoryTrafficCongestion},
	horizon.AttrTSAnimals:                 {category: CategoryAnimals},
	horizon.AttrTSChildren:                {category: CategoryChildren},
	horizon.AttrTSOvertakeCC:              {category: CategoryOvertakeAllowed, ended: CategoryOvertakeProhibited},
	horizon.AttrTSOvertakeTC:              {category: CategoryOvertakeTCAllowed, ended: CategoryOvertakeTCProhibited},
	horizon.AttrTSEndOfAllProhibitions:    {category: CategoryEndOfAllProhibitions},
	horizon.AttrTSEndPriorityRoad:         {category: CategoryEndPriorityRoad},
	horizon.AttrTSRailwayCrossingGates:    {category: CategoryRailwayCrossingGates},
	horizon.AttrTSRailwayCrossingNoGates:  {category: CategoryRailwayCrossingNoGates},
	horizon.AttrTSTramway:                 {category: CategoryTramway},
	horizon.AttrTSRailwayCrossing:         {category: CategoryRailwayCrossing},
	horizon.AttrTSCompulsoryRoundabout:    {category: CategoryCompulsoryRoundabout},
	horizon.AttrTSCrossWind:               {category: CategoryCrossWind},
	horizon.AttrTSAccidentHazard:          {category: CategoryAccidentHazard},
	horizon.AttrTSRiskOfGrounding:         {category: CategoryRiskOfGrounding},
	horizon.AttrTSPriorityOncomingTraffic: {category: CategoryPriorityOncomingTraffic},
	horizon.AttrTSYieldOncomingTraffic:    {category: CategoryYieldOncomingTraffic},
	horizon.AttrTSSteepUphill:             {category: CategorySlope, number: true},
	horizon.AttrTSSteepDownhill:           {category: CategorySlopeNeg, number: true},
	horizon.AttrTSSpeedLimit:              {category: CategorySpeedLimit, ended: CategorySpeedLimitEnd, number: true},
	horizon.AttrTSSignLanes:               {category: CategoryLanes, lanes: lanesAdvisory},
	horizon.AttrTSSignExtraLaneLeft:       {category: CategoryLanesInc, lanes: extraLane},
	horizon.AttrTSSignExtraLaneRight:      {category: CategoryLanesIncRight, lanes: extraLane},
	horizon.AttrTSSignLaneMergeLeft:       {category: CategoryLanesDec, lanes: mergeLane},
	horizon.AttrTSSignLaneMergeRight:      {category: CategoryLanesDecRight, lanes: mergeLane},
	horizon.AttrTSSignLaneMergeCenter:     {category: CategoryLanesDecCenter, lanes: mergeCenter},
	horizon.AttrCustom:                    {category: CategoryFree, synthetic: true},
}

// Lane counts encode opposite lanes in the bits above the low six.
const (
	oppositeLaneShift = 6
	ownLaneMask       = 1<<oppositeLaneShift - 1
)

func lanesAdvisory(n int) int {
	if n&ownLaneMask == 1 {
		return 2 + n&^ownLaneMask
	}
	return n - 1
}

func extraLane(n int) int {
	return n&ownLaneMask + 1
}

func mergeLane(n int) int {
	own := n & ownLaneMask
	if own == 1 {
		return 1
	}
	return own - 1
}

func mergeCenter(n int) int {
	return n - 1
}

// LaneCount returns the lane count of the sample's link: the ADAS lane
// count, plus 64 times the opposite lane count unless the link is one-way.
// It returns 1 when the count is missing or ambiguous.
func LaneCount(attrs horizon.Attributes, s horizon.Sample) int {
	own := attrs.LinkAttributes(s.LinkID, horizon.AttrADASNumberOfLanes)
	if len(own) != 1 {
		return 1
	}
	n := int(own[0].Info)
	if len(attrs.LinkAttributes(s.LinkID, horizon.AttrRightWay)) == 1 {
		return n
	}
	if opp := attrs.LinkAttributes(s.LinkID, horizon.AttrADASOppositeNumberOfLanes); len(opp) == 1 {
		n += int(opp[0].Info) << oppositeLaneShift
	}
	return n
}

// TrafficSignAreas enumerates the roadside signs ahead on the path, one
// Area per recognised sample. width is the lane count the bands cover.
func TrafficSignAreas(attrs horizon.Attributes, mpp []horizon.LinkID, width int) []Area {
	var out []Area
	for i := 0; i < attrs.Len(); i++ {
		distCM, _, s := attrs.Nearest(i)
		distM := distCM / 100
		if distM <= 0 || !slices.Contains(mpp, s.LinkID) {
			continue
		}
		rule, ok := signRules[s.Type]
		if !ok {
			continue
		}
		out = append(out, rule.area(attrs, s, distM, width))
	}
	return out
}

func (r signRule) area(attrs horizon.Attributes, s horizon.Sample, distM, width int) Area {
	a := Area{
		Category: r.category,
		StartM:   distM,
		EndM:     distM,
		Width:    width,
		RealSign: !r.signal && !r.synthetic,
	}
	switch s.Validity() {
	case horizon.ValidityStart:
		a.DistanceOrDuration = s.LengthCM / 100
	case horizon.ValidityDuration:
		a.EndM += s.LengthCM / 100
		a.DistanceOrDuration = s.LengthCM / 100
		a.Duration = true
	}
	if r.signal {
		a.DistanceOrDuration = 0
		a.Duration = false
	}
	if r.ended != CategoryInvalid && !s.IsStart {
		a.Category = r.ended
	}
	switch {
	case r.number:
		a.Number = s.Number()
	case r.lanes != nil:
		a.Number = r.lanes(LaneCount(attrs, s))
	}
	return a
}
