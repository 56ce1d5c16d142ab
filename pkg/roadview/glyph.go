package roadview

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Shape is the outline of a sign glyph.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeTriangle
	ShapeInvTriangle
	ShapeCircle
	ShapeOctagon
	ShapeDiamond
)

// Glyph describes how a category is drawn.
type Glyph struct {
	Shape  Shape
	Fill   color.RGBA
	Border color.RGBA
	Ink    color.RGBA
	Label  string
	// Numbered glyphs print the area number instead of the label; Format
	// turns it into text.
	Numbered bool
	Format   string
	// Strike draws the end-of-restriction diagonal.
	Strike bool
}

var (
	signRed    = color.RGBA{204, 0, 0, 255}
	signWhite  = color.RGBA{255, 255, 255, 255}
	signBlack  = color.RGBA{0, 0, 0, 255}
	signBlue   = color.RGBA{0, 82, 164, 255}
	signYellow = color.RGBA{255, 204, 0, 255}
	signGray   = color.RGBA{110, 110, 110, 255}
	signGreen  = color.RGBA{0, 122, 61, 255}
)

func warning(label string) Glyph {
	return Glyph{Shape: ShapeTriangle, Fill: signWhite, Border: signRed, Ink: signBlack, Label: label}
}

func info(label string) Glyph {
	return Glyph{Shape: ShapeRect, Fill: signBlue, Border: signWhite, Ink: signWhite, Label: label}
}

func lanes(label string) Glyph {
	g := info(label)
	g.Numbered = true
	g.Format = label + "%d"
	return g
}

func prohibition(label string) Glyph {
	return Glyph{Shape: ShapeCircle, Fill: signWhite, Border: signRed, Ink: signBlack, Label: label}
}

func ended(label string) Glyph {
	return Glyph{Shape: ShapeCircle, Fill: signWhite, Border: signGray, Ink: signGray, Label: label, Strike: true}
}

var glyphs = [categoryCount]Glyph{
	CategoryInvalid:        {Shape: ShapeRect, Fill: signWhite, Border: signGray, Ink: signGray, Label: "?"},
	CategoryLanesInc:       lanes("+"),
	CategoryLanesIncRight:  lanes("+"),
	CategoryLanesDec:       lanes("-"),
	CategoryLanesDecRight:  lanes("-"),
	CategoryLanesDecCenter: lanes("-"),
	CategoryLanes:          lanes(""),

	CategoryCrossing:         warning("X"),
	CategoryPriorityCrossing: warning("+"),
	CategoryGiveWay:          {Shape: ShapeInvTriangle, Fill: signWhite, Border: signRed, Ink: signBlack},

	CategoryTunnel:     info("TUN"),
	CategoryRoundabout: {Shape: ShapeCircle, Fill: signBlue, Border: signWhite, Ink: signWhite, Label: "O"},

	CategoryPedestrian:             warning("PED"),
	CategoryPedestrianCrossing:     info("PED"),
	CategoryTrafficLight:           warning("TL"),
	CategoryRightOfWay:             {Shape: ShapeDiamond, Fill: signYellow, Border: signWhite, Ink: signBlack},
	CategoryUrbanArea:              {Shape: ShapeRect, Fill: signYellow, Border: signBlack, Ink: signBlack, Label: "CITY"},
	CategoryUrbanAreaEnd:           {Shape: ShapeRect, Fill: signYellow, Border: signBlack, Ink: signBlack, Label: "CITY", Strike: true},
	CategoryStop:                   {Shape: ShapeOctagon, Fill: signRed, Border: signWhite, Ink: signWhite, Label: "STOP"},
	CategoryWarning:                warning("!"),
	CategoryLeftTurn:               warning("<"),
	CategoryRightTurn:              warning(">"),
	CategorySCurveLeft:             warning("S<"),
	CategorySCurveRight:            warning("S>"),
	CategoryUnevenRoad:             warning("~"),
	CategoryIcyRoad:                warning("*"),
	CategorySlipperyRoad:           warning("SL"),
	CategoryFallingRocks:           warning("RK"),
	CategoryRoadNarrowingLeft:      warning(")|"),
	CategoryRoadNarrowingRight:     warning("|("),
	CategoryRoadNarrowingBothSides: warning(")("),
	CategoryTrafficCongestion:      warning("JAM"),
	CategoryAnimals:                warning("ANI"),
	CategoryChildren:               warning("CH"),
	CategoryOvertakeAllowed:        ended("OVT"),
	CategoryOvertakeProhibited:     prohibition("OVT"),
	CategoryOvertakeTCAllowed:      ended("TRK"),
	CategoryOvertakeTCProhibited:   prohibition("TRK"),
	CategoryEndOfAllProhibitions:   ended(""),
	CategoryEndPriorityRoad:        {Shape: ShapeDiamond, Fill: signYellow, Border: signWhite, Ink: signGray, Strike: true},
	CategoryRailwayCrossingGates:   warning("RW"),
	CategoryRailwayCrossingNoGates: warning("RW"),
	CategoryTramway:                warning("TRM"),
	CategoryRailwayCrossing:        {Shape: ShapeRect, Fill: signWhite, Border: signRed, Ink: signRed, Label: "X"},
	CategoryCompulsoryRoundabout:   {Shape: ShapeCircle, Fill: signBlue, Border: signWhite, Ink: signWhite, Label: "O"},
	CategoryCrossWind:              warning("WND"),
	CategoryAccidentHazard:         warning("ACC"),
	CategoryRiskOfGrounding:        warning("GND"),
	CategoryPriorityOncomingTraffic: {
		Shape: ShapeRect, Fill: signBlue, Border: signWhite, Ink: signWhite, Label: "^v",
	},
	CategoryYieldOncomingTraffic: prohibition("v^"),
	CategorySlope:                {Shape: ShapeTriangle, Fill: signWhite, Border: signRed, Ink: signBlack, Numbered: true, Format: "%d%%"},
	CategorySlopeNeg:             {Shape: ShapeTriangle, Fill: signWhite, Border: signRed, Ink: signBlack, Numbered: true, Format: "-%d%%"},
	CategorySpeedLimit:           {Shape: ShapeCircle, Fill: signWhite, Border: signRed, Ink: signBlack, Numbered: true, Format: "%d"},
	CategorySpeedLimitEnd:        {Shape: ShapeCircle, Fill: signWhite, Border: signGray, Ink: signGray, Strike: true},
	CategoryExpectedSpeedLimit:   {Shape: ShapeRect, Fill: signWhite, Border: signGreen, Ink: signBlack, Numbered: true, Format: "%d"},
	CategoryPrivate:              {Shape: ShapeCircle, Fill: signRed, Border: signWhite, Ink: signWhite, Label: "-"},
	CategoryFree:                 {Shape: ShapeRect, Fill: signWhite, Border: signBlue, Ink: signBlue, Label: "i"},
}

// GlyphFor returns the glyph of category c.
func GlyphFor(c Category) Glyph {
	if c < 0 || c >= categoryCount {
		return glyphs[CategoryInvalid]
	}
	return glyphs[c]
}

// Text returns what the glyph prints for a given number.
func (g Glyph) Text(number int) string {
	if g.Numbered {
		return fmt.Sprintf(g.Format, number)
	}
	return g.Label
}

// Outline returns the polygon of shape inscribed in the square r.
func Outline(shape Shape, r image.Rectangle) []image.Point {
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	cx, cy := (x0+x1)/2, (y0+y1)/2
	switch shape {
	case ShapeTriangle:
		return []image.Point{{cx, y0}, {x1, y1}, {x0, y1}}
	case ShapeInvTriangle:
		return []image.Point{{x0, y0}, {x1, y0}, {cx, y1}}
	case ShapeDiamond:
		return []image.Point{{cx, y0}, {x1, cy}, {cx, y1}, {x0, cy}}
	case ShapeCircle:
		return regular(r, 24, 0)
	case ShapeOctagon:
		return regular(r, 8, math.Pi/8)
	}
	return []image.Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// regular returns an n-gon inscribed in r, rotated by phase.
func regular(r image.Rectangle, n int, phase float64) []image.Point {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	rad := float64(min(r.Dx(), r.Dy())) / 2
	pts := make([]image.Point, n)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		pts[i] = image.Pt(int(math.Round(cx+rad*math.Cos(a))), int(math.Round(cy+rad*math.Sin(a))))
	}
	return pts
}

// GlyphSquare returns the square the glyph outline occupies in r, leaving
// room below it for a distance label when withLabel is set.
func GlyphSquare(r image.Rectangle, withLabel bool) image.Rectangle {
	side := min(r.Dx(), r.Dy())
	if withLabel {
		side = side * 3 / 4
	}
	cx := (r.Min.X + r.Max.X) / 2
	return image.Rect(cx-side/2, r.Min.Y, cx-side/2+side, r.Min.Y+side)
}

// DrawGlyph draws category c in r. number feeds numbered glyphs; a
// non-zero dod adds the validity distance, or the length when duration is
// set, under the glyph.
func DrawGlyph(s Surface, r image.Rectangle, c Category, number, dod int, duration bool) {
	g := GlyphFor(c)
	sq := GlyphSquare(r, dod != 0)
	if sq.Dx() < 2 {
		return
	}
	pts := Outline(g.Shape, sq)
	s.FillPolygon(pts, Brush{Color: g.Fill})
	border := max(sq.Dx()/10, 1)
	s.Polyline(append(pts, pts[0]), Pen{Color: g.Border, Width: border})
	if g.Strike {
		s.Line(image.Pt(sq.Min.X+sq.Dx()/5, sq.Max.Y-sq.Dy()/5), image.Pt(sq.Max.X-sq.Dx()/5, sq.Min.Y+sq.Dy()/5),
			Pen{Color: g.Ink, Width: border})
	}

	size := max(sq.Dy()/3, 6)
	if txt := g.Text(number); txt != "" {
		ty := sq.Min.Y + (sq.Dy()-size)/2
		if g.Shape == ShapeTriangle {
			ty = sq.Min.Y + sq.Dy()/2
		}
		s.Text(image.Rect(sq.Min.X, ty, sq.Max.X, ty+size), txt, Font{Size: size, Bold: true}, g.Ink, AlignCenter)
	}
	if dod != 0 {
		label := fmt.Sprintf("+%d m", dod)
		if duration {
			label = fmt.Sprintf("%d m", dod)
		}
		s.Text(image.Rect(r.Min.X, sq.Max.Y, r.Max.X, r.Max.Y), label, Font{Size: max(r.Dy()-sq.Dy(), 6)}, signBlack, AlignCenter)
	}
}
