package roadview

import "image"

// Canvas layout constants, in pixels.
const (
	MarginLeft   = 30
	MarginRight  = 20
	MarginTop    = 5
	MarginBottom = 10

	CarRoadGap         = 10
	RoadSideGap        = 4
	RoadLinesGap       = 2
	CrossingLaneExtent = 10

	// VerticalRoadExtent is the share of the canvas height, in percent,
	// used by the road and the sign bands; the scale bar takes the rest.
	VerticalRoadExtent = 80

	ArrowCenterFromStart = 35
	ArrowWidth           = 14
	DashLength           = 7
	DashGap              = 10

	LineWidth          = 3
	ProhibitedGlyphH   = 20
	MinScaleBarHeight  = 15
	TextFontSize       = 16
	ScaleFontSize      = 14
	SignPoleWidthRatio = 30
)

// Frame partitions a canvas into the painted regions.
type Frame struct {
	Canvas image.Rectangle
	// Road is the rectangle the segments are laid out in; its width maps to
	// the displayed length.
	Road image.Rectangle
	// TopBand holds roadside and lane glyphs, BottomBand crossing glyphs.
	TopBand    image.Rectangle
	BottomBand image.Rectangle
	// SignsTop is the y the sign poles start from.
	SignsTop int

	ScaleBar  image.Rectangle
	ScaleText image.Rectangle
	City      image.Rectangle
	Speed     image.Rectangle

	CarX     int
	CarWidth int
}

// NewFrame partitions a w x h canvas leaving carWidth pixels for the car on
// the left.
func NewFrame(w, h, carWidth int) Frame {
	extent := float64(h) * VerticalRoadExtent / 100

	x := MarginLeft + carWidth + CarRoadGap
	roadY := int(extent / 4)
	roadH := int(extent / 2)
	right := w - MarginRight

	f := Frame{
		Canvas:   image.Rect(0, 0, w, h),
		Road:     image.Rect(x, roadY, right, roadY+roadH),
		SignsTop: roadY,
		CarX:     MarginLeft,
		CarWidth: carWidth,
	}

	yScale := min(int(extent), h-30)
	hScale := max(int(float64(h)*(100-VerticalRoadExtent)/200)-MarginBottom, MinScaleBarHeight)
	f.ScaleBar = image.Rect(x, yScale+RoadSideGap, right, yScale+hScale-1)
	f.ScaleText = image.Rect(x, yScale+hScale, right, yScale+2*hScale)
	f.City = image.Rect(MarginLeft, yScale, MarginLeft+carWidth, yScale+2*hScale)
	f.Speed = image.Rect(MarginLeft, MarginTop, MarginLeft+carWidth, MarginTop+int(2.5*float64(hScale)))

	hTotal := int(extent / 4)
	hBand := int(float64(hTotal) * 3 / 4)
	f.TopBand = image.Rect(x, MarginTop, right, hBand-RoadSideGap)
	yBottom := hTotal*3 + (hTotal - hBand)
	f.BottomBand = image.Rect(x, yBottom+MarginTop, right, yBottom+hBand)
	return f
}

// RoadCenter returns the y of the road's center line.
func (f Frame) RoadCenter() int {
	return RoadCenter(f.Road)
}

// RoadCenter returns the y of the center line of road rectangle r.
func RoadCenter(r image.Rectangle) int {
	return r.Min.Y + r.Dy()/2
}

// LaneWidth returns the pixel width of one lane for the given divisor.
func LaneWidth(road image.Rectangle, widthFactor int) int {
	if widthFactor <= 0 {
		return 0
	}
	return road.Dy() / (widthFactor * 2)
}

// CarOrigin returns the top-left corner for a car image of height carH on
// a road starting with startLanes lanes. It reports false when the canvas
// is too narrow to show the car.
func (f Frame) CarOrigin(carH, startLanes, widthFactor int) (image.Point, bool) {
	if f.CarWidth == 0 || f.Canvas.Dx() <= 3*f.CarWidth {
		return image.Point{}, false
	}
	lw := LaneWidth(f.Road, widthFactor)
	y := f.RoadCenter() - carH/2 + startLanes*lw/2
	return image.Pt(f.CarX, y), true
}
