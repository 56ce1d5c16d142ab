package roadview

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Palette holds the colours of a paint pass.
type Palette struct {
	Back       color.RGBA
	Road       color.RGBA
	Lines      color.RGBA
	Arrow      color.RGBA
	Scale      color.RGBA
	Debug      color.RGBA
	Roundabout color.RGBA
	Tunnel     color.RGBA
	Signs      color.RGBA
	Complex    color.RGBA
}

// DefaultPalette returns the standard colours.
func DefaultPalette() Palette {
	return Palette{
		Back:       color.RGBA{255, 255, 255, 255},
		Road:       color.RGBA{0, 0, 0, 255},
		Lines:      color.RGBA{255, 255, 255, 255},
		Arrow:      color.RGBA{210, 210, 210, 255},
		Scale:      color.RGBA{170, 170, 170, 255},
		Debug:      color.RGBA{255, 127, 0, 255},
		Roundabout: color.RGBA{220, 170, 170, 255},
		Tunnel:     color.RGBA{78, 177, 130, 255},
		Signs:      color.RGBA{0, 172, 255, 255},
		Complex:    color.RGBA{170, 170, 170, 255},
	}
}

// PainterOptions configures a Painter.
type PainterOptions struct {
	Palette        Palette
	WidthFactor    int
	MergeTolerance int
	Visibility     Visibility
	ShowSpeed      bool
	// Debug labels every transition with its link id.
	Debug bool
	// Car is drawn left of the road; nil uses CarImage.
	Car image.Image
}

// DefaultPainterOptions returns options with every layer visible.
func DefaultPainterOptions() PainterOptions {
	return PainterOptions{
		Palette:        DefaultPalette(),
		WidthFactor:    4,
		MergeTolerance: DefaultMergeTolerance,
		Visibility:     AllVisible(),
		ShowSpeed:      true,
	}
}

// Painter draws snapshots onto a Surface.
type Painter struct {
	opts PainterOptions
	car  image.Image
}

// NewPainter returns a painter for opts.
func NewPainter(opts PainterOptions) *Painter {
	if opts.WidthFactor <= 0 {
		opts.WidthFactor = 4
	}
	car := opts.Car
	if car == nil {
		car = CarImage(44, 24)
	}
	return &Painter{opts: opts, car: car}
}

// Options returns the painter's options.
func (p *Painter) Options() PainterOptions {
	return p.opts
}

// Frame returns the canvas partition for size, dropping the car when the
// canvas is too narrow for it.
func (p *Painter) Frame(size image.Point) Frame {
	carW := p.car.Bounds().Dx()
	if size.X <= 3*carW {
		carW = 0
	}
	return NewFrame(size.X, size.Y, carW)
}

// Params returns the layout parameters of one pass.
func (p *Painter) Params(f Frame, snap *Snapshot, scale Scale) LayoutParams {
	lp := LayoutParams{
		Road:           f.Road,
		Scale:          scale,
		WidthFactor:    p.opts.WidthFactor,
		StartLanes:     1,
		MergeTolerance: p.opts.MergeTolerance,
	}
	if snap != nil {
		lp.StartLanes = snap.Start.Lanes
	}
	return lp
}

type debugLabel struct {
	x  int
	id string
}

// Paint draws the whole view: background, car, scale bar, area bands,
// road blocks, sign glyphs and the debug overlay, in that order.
func (p *Painter) Paint(s Surface, size image.Point, snap *Snapshot, scale Scale) {
	pal := p.opts.Palette
	f := p.Frame(size)
	lp := p.Params(f, snap, scale)

	s.FillRect(f.Canvas, Brush{Color: pal.Back})
	if at, ok := f.CarOrigin(p.car.Bounds().Dy(), lp.StartLanes, lp.WidthFactor); ok {
		s.Blit(at, p.car)
	}
	p.paintScale(s, f, snap, scale)
	if snap == nil {
		return
	}

	p.paintAreas(s, snap, lp)
	labels := p.paintRoad(s, snap, lp)
	p.paintSigns(s, f, snap, scale)

	if p.opts.Debug {
		y := f.RoadCenter() - TextFontSize/2 - 1
		for _, l := range labels {
			x := l.x - TextFontSize
			s.Text(image.Rect(x, y, x+4*TextFontSize, y+TextFontSize), l.id,
				Font{Size: TextFontSize, Bold: true}, pal.Debug, AlignLeft)
		}
	}
}

func (p *Painter) paintScale(s Surface, f Frame, snap *Snapshot, scale Scale) {
	pal := p.opts.Palette
	bar := f.ScaleBar
	s.FrameRect(bar, Pen{Color: pal.Scale, Width: 1})
	q := bar.Dx() / 4
	s.FillRect(image.Rect(bar.Min.X, bar.Min.Y, bar.Min.X+q, bar.Max.Y), Brush{Color: pal.Scale})
	half := bar.Min.X + bar.Dx()/2
	s.FillRect(image.Rect(half, bar.Min.Y, half+q, bar.Max.Y), Brush{Color: pal.Scale})

	font := Font{Size: ScaleFontSize}
	s.Text(f.ScaleText, fmt.Sprintf("%d m", scale.DisplayedCM/100), font, pal.Road, AlignRight)
	s.Text(f.ScaleText, fmt.Sprintf("%d", scale.DisplayedCM/200), font, pal.Road, AlignCenter)
	s.Text(f.ScaleText, "0", font, pal.Road, AlignLeft)

	if snap == nil {
		return
	}
	if snap.Root.InCity && f.CarWidth > 0 {
		DrawGlyph(s, f.City, CategoryUrbanArea, 0, 0, false)
	}
	if snap.Root.Speed > 0 && p.opts.ShowSpeed && f.CarWidth > 0 {
		DrawGlyph(s, f.Speed, snap.Root.SpeedCategory(), snap.Root.Speed, 0, false)
	}
}

func (p *Painter) areaBrush(a Area) (Brush, bool) {
	pal := p.opts.Palette
	vis := p.opts.Visibility
	switch a.Category {
	case CategoryTunnel:
		return Brush{Color: pal.Tunnel}, vis.Shows(GroupTunnel)
	case CategoryRoundabout:
		return Brush{Color: pal.Roundabout}, vis.Shows(GroupRoundabout)
	}
	return Brush{Color: pal.Signs}, vis.ShowsArea(a)
}

// paintAreas fills the tunnel and roundabout spans, then the validity
// windows of the roadside signs.
func (p *Painter) paintAreas(s Surface, snap *Snapshot, lp LayoutParams) {
	var signs []Area
	for _, a := range snap.Areas {
		if a.Category != CategoryTunnel && a.Category != CategoryRoundabout {
			signs = append(signs, a)
		}
	}
	for _, set := range [][]Area{snap.Spans, signs} {
		for _, b := range LayoutAreaBands(set, lp) {
			if brush, ok := p.areaBrush(b.Area); ok {
				s.FillRect(b.Rect, brush)
			}
		}
	}
}

func (p *Painter) paintRoad(s Surface, snap *Snapshot, lp LayoutParams) []debugLabel {
	g := NewRoadGeometry(lp.Road, lp.WidthFactor)
	var labels []debugLabel
	for _, b := range LayoutSegments(snap.Signs, lp) {
		p.paintOps(s, g.Block(b))
		if b.Kind != BlockTransition {
			continue
		}
		mid := (b.Start + b.End) / 2
		if b.IsCrossing() {
			for _, r := range g.ProhibitedGlyphRects(mid, b.Lanes, b.Prohibited) {
				DrawGlyph(s, r, CategoryPrivate, 0, 0, false)
			}
		}
		labels = append(labels, debugLabel{x: mid, id: fmt.Sprint(b.LinkID)})
	}
	return labels
}

func (p *Painter) paintOps(s Surface, ops []Op) {
	pal := p.opts.Palette
	for _, op := range ops {
		switch op.Kind {
		case OpFillRect:
			s.FillRect(op.Rect, p.brush(op.Style))
		case OpFillPolygon:
			s.FillPolygon(op.Points, p.brush(op.Style))
		case OpPolyline:
			pen := Pen{Color: pal.Lines, Width: LineWidth}
			if op.Style == StyleArrow {
				pen = Pen{Color: pal.Arrow, Width: 1}
			}
			if len(op.Points) == 2 {
				s.Line(op.Points[0], op.Points[1], pen)
			} else {
				s.Polyline(op.Points, pen)
			}
		}
	}
}

func (p *Painter) brush(st Style) Brush {
	pal := p.opts.Palette
	switch st {
	case StyleLines:
		return Brush{Color: pal.Lines}
	case StyleArrow:
		return Brush{Color: pal.Arrow}
	case StyleComplex:
		return Brush{Color: pal.Complex, Hatch: true}
	}
	return Brush{Color: pal.Road}
}

func (p *Painter) paintSigns(s Surface, f Frame, snap *Snapshot, scale Scale) {
	for _, pl := range PlaceCrossingSigns(snap.Signs, f.BottomBand, scale) {
		DrawGlyph(s, pl.Rect, pl.Area.Category, 0, 0, false)
	}
	for _, pl := range PlaceSigns(snap.Areas, f.TopBand, scale, f.SignsTop, p.opts.Visibility) {
		if pl.Pole != nil {
			s.Polyline(pl.Pole, Pen{Color: p.opts.Palette.Scale, Width: pl.PoleWidth, Dotted: !pl.PoleSolid})
		}
		a := pl.Area
		DrawGlyph(s, pl.Rect, a.Category, a.Number, a.DistanceOrDuration, a.Duration)
	}
}

// CarImage draws a w x h top view of a car heading right.
func CarImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	body := color.RGBA{30, 90, 200, 255}
	glass := color.RGBA{200, 225, 250, 255}
	wheel := color.RGBA{20, 20, 20, 255}

	fill := func(r image.Rectangle, c color.Color) {
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	}
	ww, wh := w/5, max(h/8, 1)
	fill(image.Rect(w/8, 0, w/8+ww, wh), wheel)
	fill(image.Rect(w-w/8-ww, 0, w-w/8, wh), wheel)
	fill(image.Rect(w/8, h-wh, w/8+ww, h), wheel)
	fill(image.Rect(w-w/8-ww, h-wh, w-w/8, h), wheel)
	fill(image.Rect(1, wh, w-1, h-wh), body)
	fill(image.Rect(w*11/20, wh+h/8, w*3/4, h-wh-h/8), glass)
	fill(image.Rect(w/8, wh+h/6, w/4, h-wh-h/6), glass)
	return img
}
