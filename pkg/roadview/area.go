package roadview

import (
	"fmt"
	"sort"
)

// Area is a span (tunnel, roundabout, sign validity window) or a point sign
// along the path. Distances are in meters; End 0 marks a span that is
// still open at the end of the path.
type Area struct {
	Category           Category
	StartM             int
	EndM               int
	Width              int // lane count the band has to cover
	Number             int // slope %, speed, lane advisory
	DistanceOrDuration int
	Duration           bool
	RealSign           bool // posted sign, not a synthetic lane marker
}

// Open reports whether the span has no known end.
func (a Area) Open() bool {
	return a.EndM == 0
}

// Less orders areas by start, real signs first, then category, end, width,
// number, distance-or-duration and duration flag.
func (a Area) Less(b Area) bool {
	if a.StartM != b.StartM {
		return a.StartM < b.StartM
	}
	if a.RealSign != b.RealSign {
		return a.RealSign
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	if a.EndM != b.EndM {
		return a.EndM < b.EndM
	}
	if a.Width != b.Width {
		return a.Width < b.Width
	}
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	if a.DistanceOrDuration != b.DistanceOrDuration {
		return a.DistanceOrDuration < b.DistanceOrDuration
	}
	return !a.Duration && b.Duration
}

func (a Area) String() string {
	end := "open"
	if !a.Open() {
		end = fmt.Sprintf("%d m", a.EndM)
	}
	kind := "marker"
	if a.RealSign {
		kind = "sign"
	}
	return fmt.Sprintf("%6d m .. %-8s %-26s %-6s width=%d number=%d dod=%d duration=%v",
		a.StartM, end, a.Category, kind, a.Width, a.Number, a.DistanceOrDuration, a.Duration)
}

// SortAreas sorts areas in place with Less.
func SortAreas(areas []Area) {
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Less(areas[j])
	})
}

// DedupeAreas collapses adjacent entries sharing start and category,
// keeping the first. The input must be sorted.
func DedupeAreas(areas []Area) []Area {
	if len(areas) < 2 {
		return areas
	}
	out := areas[:1]
	for _, a := range areas[1:] {
		last := out[len(out)-1]
		if a.StartM == last.StartM && a.Category == last.Category {
			continue
		}
		out = append(out, a)
	}
	return out
}
