package roadview

import (
	"fmt"
	"image"
	"image/color"
)

// Brush fills an area, solid or with a diagonal hatch.
type Brush struct {
	Color color.Color
	Hatch bool
}

// Pen strokes lines.
type Pen struct {
	Color  color.Color
	Width  int
	Dotted bool
}

// Font selects the text face.
type Font struct {
	Size int
	Bold bool
}

// Align positions text horizontally in its rectangle.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface receives the drawing primitives of a paint pass, in pixels.
type Surface interface {
	FillRect(r image.Rectangle, b Brush)
	FrameRect(r image.Rectangle, p Pen)
	FillPolygon(pts []image.Point, b Brush)
	Polyline(pts []image.Point, p Pen)
	Line(from, to image.Point, p Pen)
	// Text draws s top-aligned in r.
	Text(r image.Rectangle, s string, f Font, c color.Color, a Align)
	Blit(at image.Point, img image.Image)
}

// Call is one primitive captured by a Recorder.
type Call struct {
	Op     string
	Rect   image.Rectangle
	Points []image.Point
	Color  color.Color
	Hatch  bool
	Width  int
	Dotted bool
	Text   string
	Align  Align
}

func (c Call) String() string {
	switch c.Op {
	case "text":
		return fmt.Sprintf("text %v %q", c.Rect, c.Text)
	case "fill_rect", "frame_rect":
		return fmt.Sprintf("%s %v", c.Op, c.Rect)
	}
	return fmt.Sprintf("%s %v", c.Op, c.Points)
}

// Recorder is a Surface that keeps the calls it receives.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) FillRect(rect image.Rectangle, b Brush) {
	r.Calls = append(r.Calls, Call{Op: "fill_rect", Rect: rect, Color: b.Color, Hatch: b.Hatch})
}

func (r *Recorder) FrameRect(rect image.Rectangle, p Pen) {
	r.Calls = append(r.Calls, Call{Op: "frame_rect", Rect: rect, Color: p.Color, Width: p.Width})
}

func (r *Recorder) FillPolygon(pts []image.Point, b Brush) {
	r.Calls = append(r.Calls, Call{Op: "polygon", Points: append([]image.Point(nil), pts...), Color: b.Color, Hatch: b.Hatch})
}

func (r *Recorder) Polyline(pts []image.Point, p Pen) {
	r.Calls = append(r.Calls, Call{Op: "polyline", Points: append([]image.Point(nil), pts...), Color: p.Color, Width: p.Width, Dotted: p.Dotted})
}

func (r *Recorder) Line(from, to image.Point, p Pen) {
	r.Calls = append(r.Calls, Call{Op: "line", Points: []image.Point{from, to}, Color: p.Color, Width: p.Width, Dotted: p.Dotted})
}

func (r *Recorder) Text(rect image.Rectangle, s string, f Font, c color.Color, a Align) {
	r.Calls = append(r.Calls, Call{Op: "text", Rect: rect, Text: s, Color: c, Align: a, Width: f.Size})
}

func (r *Recorder) Blit(at image.Point, img image.Image) {
	r.Calls = append(r.Calls, Call{Op: "blit", Rect: img.Bounds().Sub(img.Bounds().Min).Add(at)})
}

// Filter returns the calls with the given op.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the strings drawn, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Filter("text") {
		out = append(out, c.Text)
	}
	return out
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}
