package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/ha1tch/roadview/pkg/roadview"
)

// SVG is a Surface writing SVG elements.
type SVG struct {
	sb       strings.Builder
	width    int
	height   int
	patterns map[string]bool
}

// NewSVG starts a document of the given size.
func NewSVG(width, height int) *SVG {
	s := &SVG{width: width, height: height, patterns: make(map[string]bool)}
	s.sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	s.sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height))
	s.sb.WriteString(`<style>text { font-family: "Go", sans-serif; dominant-baseline: hanging; }</style>` + "\n")
	return s
}

func hexColor(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func opacity(c color.Color) string {
	_, _, _, a := c.RGBA()
	if a == 0xffff {
		return ""
	}
	return fmt.Sprintf(` fill-opacity="%.2f"`, float64(a)/0xffff)
}

func points(pts []image.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// hatch returns the id of the diagonal pattern for c, defining it on
// first use.
func (s *SVG) hatch(c color.Color) string {
	hex := hexColor(c)
	id := "hatch-" + strings.TrimPrefix(hex, "#")
	if !s.patterns[id] {
		s.patterns[id] = true
		s.sb.WriteString(fmt.Sprintf(`<defs><pattern id="%s" width="8" height="8" patternUnits="userSpaceOnUse">`+
			`<path d="M0,8 L8,0 M-2,2 L2,-2 M6,10 L10,6" stroke="%s" stroke-width="1"/></pattern></defs>`+"\n", id, hex))
	}
	return id
}

func (s *SVG) fill(b roadview.Brush) string {
	if b.Hatch {
		return fmt.Sprintf(`fill="url(#%s)"`, s.hatch(b.Color))
	}
	return fmt.Sprintf(`fill="%s"%s`, hexColor(b.Color), opacity(b.Color))
}

func stroke(p roadview.Pen) string {
	attr := fmt.Sprintf(`stroke="%s" stroke-width="%d"`, hexColor(p.Color), max(p.Width, 1))
	if p.Dotted {
		attr += ` stroke-dasharray="1,2"`
	}
	return attr
}

func (s *SVG) FillRect(r image.Rectangle, b roadview.Brush) {
	if r.Empty() {
		return
	}
	s.sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" %s/>`+"\n",
		r.Min.X, r.Min.Y, r.Dx(), r.Dy(), s.fill(b)))
}

func (s *SVG) FrameRect(r image.Rectangle, p roadview.Pen) {
	s.sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="none" %s/>`+"\n",
		r.Min.X, r.Min.Y, r.Dx()-1, r.Dy()-1, stroke(p)))
}

func (s *SVG) FillPolygon(pts []image.Point, b roadview.Brush) {
	if len(pts) < 3 {
		return
	}
	s.sb.WriteString(fmt.Sprintf(`<polygon points="%s" %s/>`+"\n", points(pts), s.fill(b)))
}

func (s *SVG) Polyline(pts []image.Point, p roadview.Pen) {
	if len(pts) < 2 {
		return
	}
	s.sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" %s/>`+"\n", points(pts), stroke(p)))
}

func (s *SVG) Line(from, to image.Point, p roadview.Pen) {
	s.sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" %s/>`+"\n",
		from.X, from.Y, to.X, to.Y, stroke(p)))
}

func (s *SVG) Text(r image.Rectangle, text string, f roadview.Font, c color.Color, a roadview.Align) {
	x, anchor := r.Min.X, "start"
	switch a {
	case roadview.AlignCenter:
		x, anchor = (r.Min.X+r.Max.X)/2, "middle"
	case roadview.AlignRight:
		x, anchor = r.Max.X, "end"
	}
	weight := ""
	if f.Bold {
		weight = ` font-weight="bold"`
	}
	s.sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d"%s text-anchor="%s" fill="%s">%s</text>`+"\n",
		x, r.Min.Y, f.Size, weight, anchor, hexColor(c), html.EscapeString(text)))
}

func (s *SVG) Blit(at image.Point, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	b := img.Bounds()
	s.sb.WriteString(fmt.Sprintf(`<image x="%d" y="%d" width="%d" height="%d" href="data:image/png;base64,%s"/>`+"\n",
		at.X, at.Y, b.Dx(), b.Dy(), base64.StdEncoding.EncodeToString(buf.Bytes())))
}

// String closes the document and returns it.
func (s *SVG) String() string {
	return s.sb.String() + "</svg>\n"
}

// GenerateSVG paints a view into an SVG document.
func GenerateSVG(paint PaintFunc, width, height int) string {
	s := NewSVG(width, height)
	paint(s, image.Pt(width, height))
	return s.String()
}

// RenderSVG paints a view and writes the SVG document.
func RenderSVG(w io.Writer, paint PaintFunc, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid image size %dx%d", width, height)
	}
	if _, err := io.WriteString(w, GenerateSVG(paint, width, height)); err != nil {
		return errors.Wrap(err, "write svg")
	}
	return nil
}
