package roadview

import (
	"image"
	"math"
)

// Style selects the brush or pen an Op is drawn with.
type Style int

const (
	StyleRoad    Style = iota // road surface
	StyleLines                // border, center and lane lines
	StyleArrow                // flow direction arrows
	StyleComplex              // hatched complex crossing
)

// OpKind is the primitive an Op maps to.
type OpKind int

const (
	OpFillRect OpKind = iota
	OpFillPolygon
	OpPolyline
)

// Op is one drawing primitive produced by the geometry builders. Points
// are owned by the Op and never shared between Ops.
type Op struct {
	Kind   OpKind
	Style  Style
	Rect   image.Rectangle
	Points []image.Point
}

func fillRect(s Style, r image.Rectangle) Op {
	return Op{Kind: OpFillRect, Style: s, Rect: r}
}

func polygon(s Style, pts ...[]image.Point) Op {
	return Op{Kind: OpFillPolygon, Style: s, Points: concat(pts...)}
}

func polyline(s Style, pts ...[]image.Point) Op {
	return Op{Kind: OpPolyline, Style: s, Points: concat(pts...)}
}

func line(s Style, x0, y0, x1, y1 int) Op {
	return Op{Kind: OpPolyline, Style: s, Points: []image.Point{{x0, y0}, {x1, y1}}}
}

func concat(parts ...[]image.Point) []image.Point {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]image.Point, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ArcSweep is the angle covered by transition arcs.
const ArcSweep = math.Pi / 4

// ArcSpec describes a circle arc starting tangent to a horizontal edge.
type ArcSpec struct {
	Anchor image.Point
	Radius int
	Angle  float64
	// Up bends the arc towards smaller y, Right walks it towards larger x.
	Up    bool
	Right bool
	// Offset shifts the fill points vertically so the polygon closes flush
	// against the straight road edge.
	Offset int
}

// Arc traces y = ±(r - sqrt(r² - x²)) in 1 pixel steps of x, from x = 0
// to r·cos(angle) for a right arc and back from there to 0 for a left
// arc. It returns the polygon points and the border points; they differ
// only by Offset.
func Arc(spec ArcSpec) (fill, border []image.Point) {
	dir := 1
	if spec.Up {
		dir = -1
	}
	r := spec.Radius
	limit := math.Cos(spec.Angle) * float64(r)

	point := func(x int) (image.Point, image.Point) {
		dy := dir * (r - int(math.Sqrt(float64(r*r)-float64(x)*float64(x))))
		px := spec.Anchor.X + x
		if !spec.Right {
			px = spec.Anchor.X - x
		}
		b := image.Pt(px, spec.Anchor.Y+dy)
		return b.Add(image.Pt(0, spec.Offset)), b
	}

	if spec.Right {
		for x := 0; float64(x) <= limit; x++ {
			f, b := point(x)
			fill = append(fill, f)
			border = append(border, b)
		}
		return fill, border
	}
	for x := int(limit); x >= 0; x-- {
		f, b := point(x)
		fill = append(fill, f)
		border = append(border, b)
	}
	return fill, border
}

// Arrow returns the 7 point chevron of width w centered at c, pointing
// right or left.
func Arrow(c image.Point, w int, right bool) []image.Point {
	s := -1
	if right {
		s = 1
	}
	h := w / 2
	return []image.Point{
		{c.X - s*(w/2), c.Y - h/4},
		{c.X + s*(w/4), c.Y - h/4},
		{c.X + s*(w/4), c.Y - h/2},
		{c.X + s*w, c.Y},
		{c.X + s*(w/4), c.Y + h/2},
		{c.X + s*(w/4), c.Y + h/4},
		{c.X - s*(w/2), c.Y + h/4},
	}
}

// RoadGeometry builds the shapes of road blocks around the road's center
// line.
type RoadGeometry struct {
	Road      image.Rectangle
	Center    int
	LaneWidth int
	// ArrowWidth of the flow arrows; 0 disables them.
	ArrowWidth int
}

// NewRoadGeometry returns the geometry for a road rectangle and lane width
// divisor.
func NewRoadGeometry(road image.Rectangle, widthFactor int) RoadGeometry {
	return RoadGeometry{
		Road:       road,
		Center:     RoadCenter(road),
		LaneWidth:  LaneWidth(road, widthFactor),
		ArrowWidth: ArrowWidth,
	}
}

func (g RoadGeometry) roadWidth(lanes int) int {
	return lanes * g.LaneWidth * 2
}

// Block dispatches on the kind of b.
func (g RoadGeometry) Block(b Block) []Op {
	switch b.Kind {
	case BlockSegment:
		return g.Segment(b.Start, b.End, b.Lanes)
	case BlockComplex:
		return g.ComplexCrossing(b.Start, b.End, b.Lanes)
	}
	return g.Transition(b)
}

// Segment draws a straight stretch: surface, center line (dashed for a
// single lane), borders, dashed lane separators and flow arrows.
func (g RoadGeometry) Segment(start, end, lanes int) []Op {
	c, lw := g.Center, g.LaneWidth
	w := g.roadWidth(lanes)
	top := c - w/2 - RoadLinesGap
	ops := []Op{fillRect(StyleRoad, image.Rect(start, top, end, top+w+2*RoadLinesGap+1))}

	if lanes == 1 {
		ops = append(ops, dashes(start, end, c)...)
	} else {
		ops = append(ops, line(StyleLines, start, c, end, c))
	}
	ops = append(ops,
		line(StyleLines, start, c-w/2, end, c-w/2),
		line(StyleLines, start, c+w/2, end, c+w/2),
	)

	arrows := g.ArrowWidth > 0 &&
		start+ArrowCenterFromStart < g.Road.Max.X &&
		start+ArrowCenterFromStart+g.ArrowWidth/2 < end
	for k := 1; k <= lanes; k++ {
		if k < lanes {
			ops = append(ops, dashes(start, end, c-k*lw)...)
			ops = append(ops, dashes(start, end, c+k*lw)...)
		}
		if arrows {
			x := start + ArrowCenterFromStart
			ops = append(ops,
				polygon(StyleArrow, Arrow(image.Pt(x, c-k*lw+lw/2), g.ArrowWidth, false)),
				polygon(StyleArrow, Arrow(image.Pt(x, c+k*lw-lw/2), g.ArrowWidth, true)),
			)
		}
	}
	return ops
}

// dashes draws a dashed line from start up to end at height y.
func dashes(start, end, y int) []Op {
	var ops []Op
	for x := start; x+DashLength < end; x += DashLength + DashGap {
		ops = append(ops, line(StyleLines, x, y, x+DashLength, y))
	}
	return ops
}

// Transition draws the block joining two segments.
func (g RoadGeometry) Transition(b Block) []Op {
	switch {
	case b.IsCrossing():
		return g.Crossing(b.Start, b.End, b.Lanes, b.Side)
	case b.PrevLanes > b.Lanes:
		return g.LaneDecrease(b.Start, b.End, b.PrevLanes, b.Lanes)
	case b.PrevLanes < b.Lanes:
		return g.LaneIncrease(b.Start, b.End, b.PrevLanes, b.Lanes)
	}
	return nil
}

// Crossing draws a crossing over a road of lanes lanes. On each side the
// crossing road joins, the border steps out by CrossingLaneExtent. An
// unknown side is drawn as both.
func (g RoadGeometry) Crossing(start, end, lanes int, side CrossingSide) []Op {
	if side == CrossingUnknown {
		side = CrossingBoth
	}
	c, lw, ext := g.Center, g.LaneWidth, CrossingLaneExtent
	w := g.roadWidth(lanes)

	top := c - w/2 - RoadLinesGap
	if side.HasLeft() {
		top -= ext
	}
	h := w + 2*RoadLinesGap + ext + 1
	if side == CrossingBoth {
		h += ext - 1
	}
	ops := []Op{fillRect(StyleRoad, image.Rect(start, top, end, top+h))}

	edge := func(y, out int, open bool) []Op {
		if !open {
			return []Op{line(StyleLines, start, y, end, y)}
		}
		return []Op{
			polyline(StyleLines, []image.Point{
				{start, y}, {start + RoadLinesGap, y}, {start + RoadLinesGap, y + out},
			}),
			polyline(StyleLines, []image.Point{
				{end - RoadLinesGap - 1, y + out}, {end - RoadLinesGap - 1, y}, {end, y},
			}),
		}
	}
	ops = append(ops, edge(c-lanes*lw, -ext, side.HasLeft())...)
	ops = append(ops, edge(c+lanes*lw, ext, side.HasRight())...)
	return ops
}

// LaneIncrease widens the road from prev to next lanes on both sides.
func (g RoadGeometry) LaneIncrease(start, end, prev, next int) []Op {
	c, lw := g.Center, g.LaneWidth
	w := g.roadWidth(prev)

	yStart := c - prev*lw + RoadLinesGap - 1
	f1, b1 := Arc(ArcSpec{Anchor: image.Pt(start, yStart), Radius: lw, Angle: ArcSweep, Up: true, Right: true, Offset: -RoadLinesGap})
	f2, b2 := Arc(ArcSpec{Anchor: image.Pt(end, c-next*lw-1), Radius: lw, Angle: ArcSweep, Offset: -RoadLinesGap})
	ops := []Op{
		polygon(StyleRoad, f1, f2, []image.Point{{end, yStart}}),
		fillRect(StyleRoad, image.Rect(start, c-prev*lw-RoadLinesGap, end, c-prev*lw-RoadLinesGap+w+2*RoadLinesGap)),
		polyline(StyleLines, b1, b2),
		line(StyleLines, start, c, end, c),
	}

	yStart = c + prev*lw - RoadLinesGap + 1
	f1, b1 = Arc(ArcSpec{Anchor: image.Pt(start, yStart), Radius: lw, Angle: ArcSweep, Right: true, Offset: RoadLinesGap})
	f2, b2 = Arc(ArcSpec{Anchor: image.Pt(end, c+next*lw+1), Radius: lw, Angle: ArcSweep, Up: true, Offset: RoadLinesGap})
	return append(ops,
		polygon(StyleRoad, f1, f2, []image.Point{{end, yStart}}),
		polyline(StyleLines, b1, b2),
	)
}

// LaneDecrease narrows the road from prev to next lanes on both sides.
func (g RoadGeometry) LaneDecrease(start, end, prev, next int) []Op {
	c, lw := g.Center, g.LaneWidth
	w := g.roadWidth(next)

	f1, b1 := Arc(ArcSpec{Anchor: image.Pt(start, c-prev*lw-1), Radius: lw, Angle: ArcSweep, Right: true, Offset: -RoadLinesGap})
	f2, b2 := Arc(ArcSpec{Anchor: image.Pt(end, c-next*lw+RoadLinesGap-1), Radius: lw, Angle: ArcSweep, Up: true, Offset: -RoadLinesGap})
	ops := []Op{
		polygon(StyleRoad, f1, f2, []image.Point{{start, f2[len(f2)-1].Y}}),
		fillRect(StyleRoad, image.Rect(start, c-next*lw-RoadLinesGap, end, c-next*lw-RoadLinesGap+w+2*RoadLinesGap)),
		polyline(StyleLines, b1, b2),
		line(StyleLines, start, c, end, c),
	}

	f1, b1 = Arc(ArcSpec{Anchor: image.Pt(start, c+prev*lw+1), Radius: lw, Angle: ArcSweep, Up: true, Right: true, Offset: RoadLinesGap})
	f2, b2 = Arc(ArcSpec{Anchor: image.Pt(end, c+next*lw-RoadLinesGap+1), Radius: lw, Angle: ArcSweep, Offset: RoadLinesGap})
	return append(ops,
		polygon(StyleRoad, f1, f2, []image.Point{{start, f2[len(f2)-1].Y}}),
		polyline(StyleLines, b1, b2),
	)
}

// ComplexCrossing is a hatched block as wide as a road of lanes lanes.
func (g RoadGeometry) ComplexCrossing(start, end, lanes int) []Op {
	w := g.roadWidth(lanes)
	top := g.Center - w/2 - RoadLinesGap
	return []Op{fillRect(StyleComplex, image.Rect(start, top, end, top+w+2*RoadLinesGap+1))}
}

// ProhibitedGlyphRects returns the rectangles of the wrong-way glyphs drawn
// above (left side) and below (right side) a crossing centered at x over a
// road of lanes lanes. Glyphs outside the road are omitted.
func (g RoadGeometry) ProhibitedGlyphRects(x, lanes int, side ProhibitedSide) []image.Rectangle {
	if x <= g.Road.Min.X || x >= g.Road.Max.X {
		return nil
	}
	w := g.roadWidth(lanes)
	gw := g.Road.Dx() / 15
	var out []image.Rectangle
	if side.HasLeft() {
		y := g.Center - w/2 - ProhibitedGlyphH - CrossingLaneExtent - RoadSideGap
		out = append(out, image.Rect(x-gw/2, y, x+gw/2, y+ProhibitedGlyphH))
	}
	if side.HasRight() {
		y := g.Center + w/2 + CrossingLaneExtent + RoadSideGap
		out = append(out, image.Rect(x-gw/2, y, x+gw/2, y+ProhibitedGlyphH))
	}
	return out
}
