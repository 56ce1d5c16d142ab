package roadview

import "image"

// Zoom bounds, in centimeters of displayed road.
const (
	ZoomStepCM    = 10000
	ZoomMinCM     = 10000
	ZoomMaxCM     = 1000000
	ZoomDefaultCM = 100000

	CityInScaleCM  = 30000
	CityOutScaleCM = 100000
)

// Scale maps distances along the path to pixels.
type Scale struct {
	DisplayedCM int
}

// ToPixel returns the offset in pixels of distCM over a span of width
// pixels showing DisplayedCM. Division truncates.
func (s Scale) ToPixel(distCM, width int) int {
	if s.DisplayedCM <= 0 {
		return 0
	}
	return int(int64(distCM) * int64(width) / int64(s.DisplayedCM))
}

// ToDistance is the inverse of ToPixel.
func (s Scale) ToDistance(px, width int) int {
	if width <= 0 {
		return 0
	}
	return int(int64(px) * int64(s.DisplayedCM) / int64(width))
}

// X returns the absolute x coordinate of distCM inside r.
func (s Scale) X(distCM int, r image.Rectangle) int {
	return r.Min.X + s.ToPixel(distCM, r.Dx())
}

// XM is X for a distance in meters.
func (s Scale) XM(distM int, r image.Rectangle) int {
	return s.X(distM*100, r)
}

// Zoom is the user-adjustable displayed length.
type Zoom struct {
	LengthCM int
	MinCM    int
	MaxCM    int
	StepCM   int
	// Auto replaces manual steps with the city presets.
	Auto      bool
	CityInCM  int
	CityOutCM int
}

// DefaultZoom returns the standard zoom range starting at 1 km.
func DefaultZoom() Zoom {
	return Zoom{
		LengthCM:  ZoomDefaultCM,
		MinCM:     ZoomMinCM,
		MaxCM:     ZoomMaxCM,
		StepCM:    ZoomStepCM,
		CityInCM:  CityInScaleCM,
		CityOutCM: CityOutScaleCM,
	}
}

// Wheel moves one step out (delta > 0) or in (delta < 0). It reports
// whether the length changed: steps leaving [MinCM, MaxCM] and all manual
// steps in auto mode are no-ops.
func (z *Zoom) Wheel(delta int) bool {
	if z.Auto || delta == 0 {
		return false
	}
	next := z.LengthCM + z.StepCM
	if delta < 0 {
		next = z.LengthCM - z.StepCM
	}
	if next < z.MinCM || next > z.MaxCM {
		return false
	}
	z.LengthCM = next
	Logger().Debug("zoom", "length_m", z.LengthCM/100)
	return true
}

// SetInCity applies the city preset in auto mode.
func (z *Zoom) SetInCity(inCity bool) bool {
	if !z.Auto {
		return false
	}
	next := z.CityOutCM
	if inCity {
		next = z.CityInCM
	}
	if next == z.LengthCM {
		return false
	}
	z.LengthCM = next
	Logger().Debug("auto zoom", "in_city", inCity, "length_m", z.LengthCM/100)
	return true
}

// Scale returns the mapping for the current length.
func (z Zoom) Scale() Scale {
	return Scale{DisplayedCM: z.LengthCM}
}
