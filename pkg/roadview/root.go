package roadview

import "github.com/ha1tch/roadview/pkg/horizon"

// RootInfo describes the link the vehicle is on.
type RootInfo struct {
	LinkID horizon.LinkID
	InCity bool
	// Speed is the current (ADAS) limit when known, else the expected one.
	Speed          int
	SpeedIsCurrent bool
}

// ResolveRoot reads the city flag and speed limit of link id.
func ResolveRoot(attrs horizon.Attributes, links horizon.Links, id horizon.LinkID) RootInfo {
	info := RootInfo{LinkID: id}
	if l, ok := links.LinkByID(id); ok {
		info.InCity = l.InCity
	}

	current, expected := 0, 0
	for _, s := range attrs.LinkAttributes(id, horizon.AttrAny) {
		switch s.Type {
		case horizon.AttrCurrentSpeed:
			current = int(s.Info)
		case horizon.AttrExpectedSpeed:
			expected = int(s.Info)
		}
	}
	if current != 0 {
		info.Speed, info.SpeedIsCurrent = current, true
	} else {
		info.Speed = expected
	}
	return info
}

// SpeedCategory returns the glyph for the root speed: a limit, an
// expected limit, or end of limit for values of 997 and above.
func (r RootInfo) SpeedCategory() Category {
	switch {
	case r.Speed >= 997:
		return CategorySpeedLimitEnd
	case r.SpeedIsCurrent:
		return CategorySpeedLimit
	}
	return CategoryExpectedSpeedLimit
}
