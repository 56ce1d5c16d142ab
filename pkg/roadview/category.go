// Package roadview aggregates horizon attributes into lane, crossing and
// sign records and lays them out as a schematic, distance-scaled road.
package roadview

import "fmt"

// Category identifies a sign or area kind.
type Category int

const (
	CategoryInvalid Category = iota

	// Lane count changes and advisories.
	CategoryLanesInc
	CategoryLanesIncRight
	CategoryLanesDec
	CategoryLanesDecRight
	CategoryLanesDecCenter
	CategoryLanes

	// Crossings.
	CategoryCrossing
	CategoryPriorityCrossing
	CategoryGiveWay

	// Spans.
	CategoryTunnel
	CategoryRoundabout

	// Roadside signs.
	CategoryPedestrian
	CategoryPedestrianCrossing
	CategoryTrafficLight
	CategoryRightOfWay
	CategoryUrbanArea
	CategoryUrbanAreaEnd
	CategoryStop
	CategoryWarning
	CategoryLeftTurn
	CategoryRightTurn
	CategorySCurveLeft
	CategorySCurveRight
	CategoryUnevenRoad
	CategoryIcyRoad
	CategorySlipperyRoad
	CategoryFallingRocks
	CategoryRoadNarrowingLeft
	CategoryRoadNarrowingRight
	CategoryRoadNarrowingBothSides
	CategoryTrafficCongestion
	CategoryAnimals
	CategoryChildren
	CategoryOvertakeAllowed
	CategoryOvertakeProhibited
	CategoryOvertakeTCAllowed
	CategoryOvertakeTCProhibited
	CategoryEndOfAllProhibitions
	CategoryEndPriorityRoad
	CategoryRailwayCrossingGates
	CategoryRailwayCrossingNoGates
	CategoryTramway
	CategoryRailwayCrossing
	CategoryCompulsoryRoundabout
	CategoryCrossWind
	CategoryAccidentHazard
	CategoryRiskOfGrounding
	CategoryPriorityOncomingTraffic
	CategoryYieldOncomingTraffic
	CategorySlope
	CategorySlopeNeg
	CategorySpeedLimit
	CategorySpeedLimitEnd
	CategoryExpectedSpeedLimit
	CategoryPrivate
	CategoryFree

	categoryCount
)

// Group is a visibility toggle shared by one or more categories.
type Group int

const (
	GroupOther Group = iota
	GroupTunnel
	GroupRoundabout
	GroupPedestrian
	GroupPedestrianCrosswalk
	GroupTrafficLight
	GroupTrafficLightSign
	GroupRightOfWay
	GroupRightOfWayRoad
	GroupYield
	GroupEndOfTown
	GroupIntersection
	GroupCustom

	groupCount
)

type categoryInfo struct {
	name  string
	group Group
}

var categories = [categoryCount]categoryInfo{
	CategoryInvalid:                 {"invalid", GroupOther},
	CategoryLanesInc:                {"lanes_inc", GroupOther},
	CategoryLanesIncRight:           {"lanes_inc_right", GroupOther},
	CategoryLanesDec:                {"lanes_dec", GroupOther},
	CategoryLanesDecRight:           {"lanes_dec_right", GroupOther},
	CategoryLanesDecCenter:          {"lanes_dec_center", GroupOther},
	CategoryLanes:                   {"lanes", GroupOther},
	CategoryCrossing:                {"crossing", GroupIntersection},
	CategoryPriorityCrossing:        {"priority_crossing", GroupRightOfWay},
	CategoryGiveWay:                 {"give_way", GroupYield},
	CategoryTunnel:                  {"tunnel", GroupTunnel},
	CategoryRoundabout:              {"roundabout", GroupRoundabout},
	CategoryPedestrian:              {"pedestrian", GroupPedestrian},
	CategoryPedestrianCrossing:      {"pedestrian_crossing", GroupPedestrianCrosswalk},
	CategoryTrafficLight:            {"traffic_light", GroupTrafficLight},
	CategoryRightOfWay:              {"right_of_way", GroupRightOfWayRoad},
	CategoryUrbanArea:               {"urban_area", GroupOther},
	CategoryUrbanAreaEnd:            {"urban_area_end", GroupEndOfTown},
	CategoryStop:                    {"stop", GroupOther},
	CategoryWarning:                 {"warning", GroupOther},
	CategoryLeftTurn:                {"left_turn", GroupOther},
	CategoryRightTurn:               {"right_turn", GroupOther},
	CategorySCurveLeft:              {"s_curve_left", GroupOther},
	CategorySCurveRight:             {"s_curve_right", GroupOther},
	CategoryUnevenRoad:              {"uneven_road", GroupOther},
	CategoryIcyRoad:                 {"icy_road", GroupOther},
	CategorySlipperyRoad:            {"slippery_road", GroupOther},
	CategoryFallingRocks:            {"falling_rocks", GroupOther},
	CategoryRoadNarrowingLeft:       {"road_narrowing_left", GroupOther},
	CategoryRoadNarrowingRight:      {"road_narrowing_right", GroupOther},
	CategoryRoadNarrowingBothSides:  {"road_narrowing_both_sides", GroupOther},
	CategoryTrafficCongestion:       {"traffic_congestion", GroupOther},
	CategoryAnimals:                 {"animals", GroupOther},
	CategoryChildren:                {"children", GroupOther},
	CategoryOvertakeAllowed:         {"overtake_allowed", GroupOther},
	CategoryOvertakeProhibited:      {"overtake_prohibited", GroupOther},
	CategoryOvertakeTCAllowed:       {"overtake_tc_allowed", GroupOther},
	CategoryOvertakeTCProhibited:    {"overtake_tc_prohibited", GroupOther},
	CategoryEndOfAllProhibitions:    {"end_of_all_prohibitions", GroupOther},
	CategoryEndPriorityRoad:         {"end_priority_road", GroupOther},
	CategoryRailwayCrossingGates:    {"railway_crossing_gates", GroupOther},
	CategoryRailwayCrossingNoGates:  {"railway_crossing_no_gates", GroupOther},
	CategoryTramway:                 {"tramway", GroupOther},
	CategoryRailwayCrossing:         {"railway_crossing", GroupOther},
	CategoryCompulsoryRoundabout:    {"compulsory_roundabout", GroupOther},
	CategoryCrossWind:               {"cross_wind", GroupOther},
	CategoryAccidentHazard:          {"accident_hazard", GroupOther},
	CategoryRiskOfGrounding:         {"risk_of_grounding", GroupOther},
	CategoryPriorityOncomingTraffic: {"priority_oncoming_traffic", GroupOther},
	CategoryYieldOncomingTraffic:    {"yield_oncoming_traffic", GroupOther},
	CategorySlope:                   {"slope", GroupOther},
	CategorySlopeNeg:                {"slope_neg", GroupOther},
	CategorySpeedLimit:              {"speed_limit", GroupOther},
	CategorySpeedLimitEnd:           {"speed_limit_end", GroupOther},
	CategoryExpectedSpeedLimit:      {"expected_speed_limit", GroupOther},
	CategoryPrivate:                 {"private", GroupOther},
	CategoryFree:                    {"free", GroupCustom},
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categories[c].name
}

// IsLaneChange reports whether c is one of the lane increase or
// decrease variants.
func (c Category) IsLaneChange() bool {
	return c >= CategoryLanesInc && c <= CategoryLanesDecCenter
}

// GroupOf returns the visibility group of an area. Traffic lights posted as
// real roadside signs have their own toggle.
func GroupOf(c Category, realSign bool) Group {
	if c == CategoryTrafficLight && realSign {
		return GroupTrafficLightSign
	}
	if c < 0 || c >= categoryCount {
		return GroupOther
	}
	return categories[c].group
}

// Visibility holds one toggle per group.
type Visibility [groupCount]bool

// AllVisible returns a Visibility with every group enabled.
func AllVisible() Visibility {
	var v Visibility
	for i := range v {
		v[i] = true
	}
	return v
}

// Shows reports whether group g is enabled.
func (v Visibility) Shows(g Group) bool {
	if g < 0 || g >= groupCount {
		return false
	}
	return v[g]
}

// ShowsArea reports whether an area record is enabled.
func (v Visibility) ShowsArea(a Area) bool {
	return v.Shows(GroupOf(a.Category, a.RealSign))
}
