package roadview

import (
	"fmt"
	"sort"

	"github.com/ha1tch/roadview/pkg/horizon"
)

// CrossingSide is the side of the road an intersecting road joins.
type CrossingSide int

const (
	CrossingUnknown CrossingSide = 0
	CrossingLeft    CrossingSide = 1
	CrossingRight   CrossingSide = 2
	CrossingBoth    CrossingSide = CrossingLeft | CrossingRight
)

func (s CrossingSide) String() string {
	switch s {
	case CrossingLeft:
		return "left"
	case CrossingRight:
		return "right"
	case CrossingBoth:
		return "both"
	}
	return "unknown"
}

// HasLeft reports whether the left side is set.
func (s CrossingSide) HasLeft() bool { return s&CrossingLeft != 0 }

// HasRight reports whether the right side is set.
func (s CrossingSide) HasRight() bool { return s&CrossingRight != 0 }

// ProhibitedSide marks the sides carrying a wrong-way branch.
type ProhibitedSide int

const (
	ProhibitedNone  ProhibitedSide = 0
	ProhibitedLeft  ProhibitedSide = 1
	ProhibitedRight ProhibitedSide = 2
	ProhibitedBoth  ProhibitedSide = ProhibitedLeft | ProhibitedRight
)

func (s ProhibitedSide) String() string {
	switch s {
	case ProhibitedLeft:
		return "left"
	case ProhibitedRight:
		return "right"
	case ProhibitedBoth:
		return "both"
	}
	return "none"
}

// HasLeft reports whether the left side is set.
func (s ProhibitedSide) HasLeft() bool { return s&ProhibitedLeft != 0 }

// HasRight reports whether the right side is set.
func (s ProhibitedSide) HasRight() bool { return s&ProhibitedRight != 0 }

// Sign is a lane-count or crossing event along the path.
type Sign struct {
	Lanes        Category // lane change variant, or CategoryInvalid
	LaneCount    int      // lane count after the sign
	Crossing     Category // crossing variant, or CategoryInvalid
	CrossingSize float64  // width factor of the crossing
	DistanceM    int
	Side         CrossingSide
	Prohibited   ProhibitedSide
	LinkID       horizon.LinkID
}

// IsSentinel reports whether s only closes the last segment.
func (s Sign) IsSentinel() bool {
	return s.Lanes == CategoryInvalid && s.Crossing == CategoryInvalid
}

func (s Sign) String() string {
	return fmt.Sprintf("%6d m  lanes=%d %-16s crossing=%-17s size=%.1f side=%-7s prohibited=%-5s link=%d",
		s.DistanceM, s.LaneCount, s.Lanes, s.Crossing, s.CrossingSize, s.Side, s.Prohibited, s.LinkID)
}

// SortSigns orders signs by ascending distance, keeping the order of
// equal distances.
func SortSigns(signs []Sign) {
	sort.SliceStable(signs, func(i, j int) bool {
		return signs[i].DistanceM < signs[j].DistanceM
	})
}
