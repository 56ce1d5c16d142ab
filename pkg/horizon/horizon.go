// Package horizon provides the road-ahead data model: distance-tagged
// attribute samples, the link graph and the most probable path.
package horizon

import (
	"fmt"
	"sort"
	"strings"
)

// LinkID identifies a directed link of the horizon graph.
type LinkID uint32

// AttrType is the attribute type code of a sample.
type AttrType int

const (
	// AttrAny matches every type when used as a filter.
	AttrAny AttrType = iota

	AttrNumberOfLanes
	AttrCrossingSame
	AttrCrossingSmall
	AttrCrossingBig
	AttrTunnel
	AttrRoundabout
	AttrCurrentSpeed
	AttrExpectedSpeed
	AttrADASNumberOfLanes
	AttrADASOppositeNumberOfLanes
	AttrRightWay

	AttrTSPedestrianXing
	AttrTSPedestrianCrosswalk
	AttrTSTrafficLight
	AttrTSTrafficLightSign
	AttrTSRightOfWayRoad
	AttrTSRightOfWayCrossing
	AttrTSEndOfTown
	AttrTSEqualIntersection
	AttrTSYield
	AttrTSStop
	AttrTSWarning
	AttrTSSharpCurveLeft
	AttrTSSharpCurveRight
	AttrTSSCurveLeft
	AttrTSSCurveRight
	AttrTSUnevenRoad
	AttrTSIcyRoad
	AttrTSSlipperyRoad
	AttrTSFallingRocks
	AttrTSRoadNarrowingLeft
	AttrTSRoadNarrowingRight
	AttrTSRoadNarrowingBothSides
	AttrTSTrafficCongestion
	AttrTSAnimals
	AttrTSChildren
	AttrTSOvertakeCC
	AttrTSOvertakeTC
	AttrTSEndOfAllProhibitions
	AttrTSEndPriorityRoad
	AttrTSRailwayCrossingGates
	AttrTSRailwayCrossingNoGates
	AttrTSTramway
	AttrTSRailwayCrossing
	AttrTSCompulsoryRoundabout
	AttrTSCrossWind
	AttrTSAccidentHazard
	AttrTSRiskOfGrounding
	AttrTSPriorityOncomingTraffic
	AttrTSYieldOncomingTraffic
	AttrTSSteepUphill
	AttrTSSteepDownhill
	AttrTSSpeedLimit
	AttrTSSignLanes
	AttrTSSignExtraLaneLeft
	AttrTSSignExtraLaneRight
	AttrTSSignLaneMergeLeft
	AttrTSSignLaneMergeRight
	AttrTSSignLaneMergeCenter
	AttrCustom

	attrCount
)

var attrNames = [attrCount]string{
	AttrAny:                       "any",
	AttrNumberOfLanes:             "number_of_lanes",
	AttrCrossingSame:              "crossing_same",
	AttrCrossingSmall:             "crossing_small",
	AttrCrossingBig:               "crossing_big",
	AttrTunnel:                    "tunnel",
	AttrRoundabout:                "roundabout",
	AttrCurrentSpeed:              "current_speed",
	AttrExpectedSpeed:             "expected_speed",
	AttrADASNumberOfLanes:         "adas_number_of_lanes",
	AttrADASOppositeNumberOfLanes: "adas_opposite_number_of_lanes",
	AttrRightWay:                  "right_way",
	AttrTSPedestrianXing:          "ts_pedestrian_xing",
	AttrTSPedestrianCrosswalk:     "ts_pedestrian_crosswalk",
	AttrTSTrafficLight:            "ts_traffic_light",
	AttrTSTrafficLightSign:        "ts_traffic_light_sign",
	AttrTSRightOfWayRoad:          "ts_right_of_way_road",
	AttrTSRightOfWayCrossing:      "ts_right_of_way_crossing",
	AttrTSEndOfTown:               "ts_end_of_town",
	AttrTSEqualIntersection:       "ts_equal_intersection",
	AttrTSYield:                   "ts_yield",
	AttrTSStop:                    "ts_stop",
	AttrTSWarning:                 "ts_warning",
	AttrTSSharpCurveLeft:          "ts_sharp_curve_left",
	AttrTSSharpCurveRight:         "ts_sharp_curve_right",
	AttrTSSCurveLeft:              "ts_s_curve_left",
	AttrTSSCurveRight:             "ts_s_curve_right",
	AttrTSUnevenRoad:              "ts_uneven_road",
	AttrTSIcyRoad:                 "ts_icy_road",
	AttrTSSlipperyRoad:            "ts_slippery_road",
	AttrTSFallingRocks:            "ts_falling_rocks",
	AttrTSRoadNarrowingLeft:       "ts_road_narrowing_left",
	AttrTSRoadNarrowingRight:      "ts_road_narrowing_right",
	AttrTSRoadNarrowingBothSides:  "ts_road_narrowing_both_sides",
	AttrTSTrafficCongestion:       "ts_traffic_congestion",
	AttrTSAnimals:                 "ts_animals",
	AttrTSChildren:                "ts_children",
	AttrTSOvertakeCC:              "ts_overtake_cc",
	AttrTSOvertakeTC:              "ts_overtake_tc",
	AttrTSEndOfAllProhibitions:    "ts_end_of_all_prohibitions",
	AttrTSEndPriorityRoad:         "ts_end_priority_road",
	AttrTSRailwayCrossingGates:    "ts_railway_crossing_gates",
	AttrTSRailwayCrossingNoGates:  "ts_railway_crossing_no_gates",
	AttrTSTramway:                 "ts_tramway",
	AttrTSRailwayCrossing:         "ts_railway_crossing",
	AttrTSCompulsoryRoundabout:    "ts_compulsory_roundabout",
	AttrTSCrossWind:               "ts_cross_wind",
	AttrTSAccidentHazard:          "ts_accident_hazard",
	AttrTSRiskOfGrounding:         "ts_risk_of_grounding",
	AttrTSPriorityOncomingTraffic: "ts_priority_oncoming_traffic",
	AttrTSYieldOncomingTraffic:    "ts_yield_oncoming_traffic",
	AttrTSSteepUphill:             "ts_steep_uphill",
	AttrTSSteepDownhill:           "ts_steep_downhill",
	AttrTSSpeedLimit:              "ts_speed_limit",
	AttrTSSignLanes:               "ts_sign_lanes",
	AttrTSSignExtraLaneLeft:       "ts_sign_extra_lane_left",
	AttrTSSignExtraLaneRight:      "ts_sign_extra_lane_right",
	AttrTSSignLaneMergeLeft:       "ts_sign_lane_merge_left",
	AttrTSSignLaneMergeRight:      "ts_sign_lane_merge_right",
	AttrTSSignLaneMergeCenter:     "ts_sign_lane_merge_center",
	AttrCustom:                    "custom",
}

// String returns the snake_case name of the type.
func (t AttrType) String() string {
	if t < 0 || t >= attrCount {
		return fmt.Sprintf("attr(%d)", int(t))
	}
	return attrNames[t]
}

// ParseAttrType returns the type with the given name.
func ParseAttrType(name string) (AttrType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range attrNames {
		if n == name {
			return AttrType(i), nil
		}
	}
	return AttrAny, fmt.Errorf("%w: %q", ErrUnknownAttrType, name)
}

// MarshalText implements encoding.TextMarshaler.
func (t AttrType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AttrType) UnmarshalText(b []byte) error {
	v, err := ParseAttrType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// IsTrafficSign reports whether t belongs to the roadside sign family.
func (t AttrType) IsTrafficSign() bool {
	return t >= AttrTSPedestrianXing && t <= AttrCustom
}

// Validity is the validity-window flag of a traffic-sign sample.
type Validity int

const (
	ValidityNone Validity = iota
	// ValidityStart: the sign announces a window starting LengthCM ahead.
	ValidityStart
	// ValidityDuration: the sign is valid for LengthCM from its position.
	ValidityDuration
)

// Sample is one distance-tagged attribute of the road ahead.
type Sample struct {
	DistanceCM  int // from the current position, negative behind it
	Type        AttrType
	Info        uint32
	LinkID      LinkID
	LengthCM    int
	Probability float64
	IsStart     bool
}

// Number returns the numeric payload of a traffic-sign sample.
func (s Sample) Number() int {
	return int(s.Info & 0xFFFF)
}

// Validity returns the validity flag of a traffic-sign sample.
func (s Sample) Validity() Validity {
	return Validity((s.Info >> 16) & 0x3)
}

// SignInfo packs a sign number and validity flag into an info word.
func SignInfo(number int, v Validity) uint32 {
	return uint32(number)&0xFFFF | uint32(v&0x3)<<16
}

// Link is a directed road link of the horizon graph.
type Link struct {
	ID LinkID
	// InternalID is shared by both directions of the same road piece.
	InternalID string
	LengthCM   int
	Children   []LinkID
	// TurnAngles maps a parent link to the turn angle in degrees from it,
	// negative to the left.
	TurnAngles      map[LinkID]int
	Probability     float64
	InCity          bool
	LeftHandTraffic bool
}

// ParentTurnAngle returns the turn angle from the given parent.
func (l Link) ParentTurnAngle(parent LinkID) int {
	return l.TurnAngles[parent]
}

// DrivingSideIsRight reports right-hand traffic.
func (l Link) DrivingSideIsRight() bool {
	return !l.LeftHandTraffic
}

// Attributes is the distance-indexed sample query.
type Attributes interface {
	Len() int
	// Nearest returns the i-th sample ordered by distance.
	Nearest(i int) (distanceCM int, probability float64, s Sample)
	// LinkAttributes returns the samples of a link, restricted to filter
	// unless it is AttrAny.
	LinkAttributes(id LinkID, filter AttrType) []Sample
}

// Links is the link graph with its most probable path.
type Links interface {
	LinkByID(id LinkID) (Link, bool)
	MostProbablePath() []LinkID
}

// Horizon is an in-memory attribute source and link graph.
type Horizon struct {
	Name    string
	Path    []LinkID
	Links   map[LinkID]Link
	Samples []Sample
	sorted  bool
}

// New creates an empty horizon.
func New() *Horizon {
	return &Horizon{
		Path:    make([]LinkID, 0),
		Links:   make(map[LinkID]Link),
		Samples: make([]Sample, 0),
	}
}

// AddLink adds or replaces a link.
func (h *Horizon) AddLink(l Link) {
	if l.InternalID == "" {
		l.InternalID = fmt.Sprintf("%d", l.ID)
	}
	h.Links[l.ID] = l
}

// AddSample appends a sample.
func (h *Horizon) AddSample(s Sample) {
	h.Samples = append(h.Samples, s)
	h.sorted = false
}

// SetPath sets the most probable path.
func (h *Horizon) SetPath(ids ...LinkID) {
	h.Path = append(h.Path[:0], ids...)
}

// Validate checks that the path and samples reference known links.
func (h *Horizon) Validate() error {
	for i, id := range h.Path {
		if _, ok := h.Links[id]; !ok {
			return fmt.Errorf("path[%d]: unknown link %d", i, id)
		}
	}
	for id, l := range h.Links {
		for _, c := range l.Children {
			if _, ok := h.Links[c]; !ok {
				return fmt.Errorf("link %d: unknown child %d", id, c)
			}
		}
	}
	for i, s := range h.Samples {
		if _, ok := h.Links[s.LinkID]; !ok {
			return fmt.Errorf("sample %d: unknown link %d", i, s.LinkID)
		}
	}
	return nil
}

func (h *Horizon) sort() {
	if h.sorted {
		return
	}
	sort.SliceStable(h.Samples, func(i, j int) bool {
		return h.Samples[i].DistanceCM < h.Samples[j].DistanceCM
	})
	h.sorted = true
}

// Len returns the number of samples.
func (h *Horizon) Len() int {
	return len(h.Samples)
}

// Nearest returns the i-th sample in ascending distance order.
func (h *Horizon) Nearest(i int) (int, float64, Sample) {
	h.sort()
	s := h.Samples[i]
	return s.DistanceCM, s.Probability, s
}

// LinkAttributes returns the samples owned by id.
func (h *Horizon) LinkAttributes(id LinkID, filter AttrType) []Sample {
	var out []Sample
	for _, s := range h.Samples {
		if s.LinkID != id {
			continue
		}
		if filter != AttrAny && s.Type != filter {
			continue
		}
		out = append(out, s)
	}
	return out
}

// LinkByID returns the link with the given id.
func (h *Horizon) LinkByID(id LinkID) (Link, bool) {
	l, ok := h.Links[id]
	return l, ok
}

// MostProbablePath returns the path from the current position.
func (h *Horizon) MostProbablePath() []LinkID {
	return h.Path
}

// PathLengthCM returns the summed length of the path links.
func (h *Horizon) PathLengthCM() int {
	total := 0
	for _, id := range h.Path {
		total += h.Links[id].LengthCM
	}
	return total
}

// String returns a human-readable summary.
func (h *Horizon) String() string {
	var sb strings.Builder
	if h.Name != "" {
		sb.WriteString(fmt.Sprintf("Horizon: %s\n", h.Name))
	}
	sb.WriteString(fmt.Sprintf("Links: %d\n", len(h.Links)))
	sb.WriteString(fmt.Sprintf("Path: %v\n", h.Path))
	sb.WriteString(fmt.Sprintf("Path length: %d m\n", h.PathLengthCM()/100))
	sb.WriteString(fmt.Sprintf("Samples: %d\n", len(h.Samples)))
	return sb.String()
}
