package roadview

import (
	"image"
	"math"
)

// Placement is a glyph positioned on a sign band.
type Placement struct {
	Area Area
	// Anchor is the x the distance maps to, Center the x the glyph was
	// moved to so it clears the previous one.
	Anchor int
	Center int
	Rect   image.Rectangle
	// Index counts the glyphs already placed at the same distance.
	Index int
	// Pole runs from the road edge to the glyph; nil when the band does
	// not lie above the road.
	Pole      []image.Point
	PoleSolid bool
	PoleWidth int
}

// Stacked glyphs shrink to this share of the band height, in tenths.
const (
	stackedGlyphTenths = 8
	glyphClearTenths   = 3
)

type placer struct {
	band    image.Rectangle
	scale   Scale
	roadTop int
	xLast   int
}

func newPlacer(band image.Rectangle, scale Scale, roadTop int) *placer {
	return &placer{band: band, scale: scale, roadTop: roadTop, xLast: math.MinInt32}
}

// place positions a glyph for a at its distance. It reports false when the
// distance falls outside the band.
func (p *placer) place(a Area, index int) (Placement, bool) {
	center := p.scale.XM(a.StartM, p.band)
	if center <= p.band.Min.X || center >= p.band.Max.X {
		return Placement{}, false
	}
	w := p.band.Dy()
	if index != 0 {
		w = stackedGlyphTenths * w / 10
	}
	moved := center
	if p.xLast+glyphClearTenths*w/10 > center {
		moved = p.xLast + glyphClearTenths*w/10
	}
	p.xLast = moved + w/2

	pl := Placement{
		Area:   a,
		Anchor: center,
		Center: moved,
		Rect:   image.Rect(moved-w, p.band.Min.Y, moved+w, p.band.Min.Y+w),
		Index:  index,
	}
	if p.roadTop > p.band.Max.Y {
		pl.Pole = []image.Point{{center, p.roadTop}, {moved, p.band.Max.Y}}
		pl.PoleWidth = 1
		if a.RealSign {
			pl.Pole = append(pl.Pole, image.Pt(moved, MarginTop/2))
			pl.PoleSolid = true
			pl.PoleWidth = p.band.Dy()/SignPoleWidthRatio + 1
		}
	}
	return pl, true
}

// PlaceSigns lays out one glyph per visible area along band, in list
// order. A glyph that would overlap the previous one is pushed right;
// glyphs sharing a distance after the first are drawn smaller. roadTop is
// the y poles start from.
func PlaceSigns(areas []Area, band image.Rectangle, scale Scale, roadTop int, vis Visibility) []Placement {
	var out []Placement
	p := newPlacer(band, scale, roadTop)
	prevStart := math.MinInt32
	index := 0
	for _, a := range areas {
		if a.Category == CategoryInvalid || !vis.ShowsArea(a) {
			continue
		}
		if a.StartM == prevStart {
			index++
		} else {
			prevStart = a.StartM
			index = 0
		}
		if pl, ok := p.place(a, index); ok {
			out = append(out, pl)
		}
	}
	return out
}

// PlaceCrossingSigns lays out one glyph per crossing sign along band,
// farthest first so nearer glyphs end up on top. Crossing glyphs never
// shift.
func PlaceCrossingSigns(signs []Sign, band image.Rectangle, scale Scale) []Placement {
	var out []Placement
	for i := len(signs) - 1; i >= 0; i-- {
		s := signs[i]
		if s.Crossing == CategoryInvalid {
			continue
		}
		p := newPlacer(band, scale, band.Max.Y)
		a := Area{Category: s.Crossing, StartM: s.DistanceM, EndM: s.DistanceM}
		if pl, ok := p.place(a, 0); ok {
			out = append(out, pl)
		}
	}
	return out
}
