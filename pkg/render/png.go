// Package render draws road views into PNG and SVG files.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ha1tch/roadview/pkg/roadview"
)

// PaintFunc draws a view of the given size; View.Paint satisfies it.
type PaintFunc func(s roadview.Surface, size image.Point)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width  int
	Height int
	// Supersample is the factor the view is drawn at before downscaling.
	Supersample int
}

// DefaultPNGOptions returns the standard output size.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       800,
		Height:      300,
		Supersample: 4,
	}
}

var (
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func init() {
	var err error
	if regularFont, err = opentype.Parse(goregular.TTF); err != nil {
		panic(err)
	}
	if boldFont, err = opentype.Parse(gobold.TTF); err != nil {
		panic(err)
	}
}

type faceKey struct {
	size int
	bold bool
}

// Raster is a Surface drawing into an RGBA image. Coordinates are view
// pixels; every view pixel covers scale x scale image pixels.
type Raster struct {
	img   *image.RGBA
	scale int
	ras   *vector.Rasterizer
	faces map[faceKey]font.Face
}

// NewRaster returns a surface over img.
func NewRaster(img *image.RGBA, scale int) *Raster {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	return &Raster{
		img:   img,
		scale: scale,
		ras:   vector.NewRasterizer(b.Dx(), b.Dy()),
		faces: make(map[faceKey]font.Face),
	}
}

// Image returns the target image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) rect(rc image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: rc.Min.Mul(r.scale), Max: rc.Max.Mul(r.scale)}
}

// pt maps a view pixel to the center of its block.
func (r *Raster) pt(p image.Point) (float32, float32) {
	s := float32(r.scale)
	return float32(p.X)*s + s/2, float32(p.Y)*s + s/2
}

func (r *Raster) FillRect(rc image.Rectangle, b roadview.Brush) {
	dst := r.rect(rc).Intersect(r.img.Bounds())
	if dst.Empty() {
		return
	}
	src := image.NewUniform(b.Color)
	if !b.Hatch {
		draw.Draw(r.img, dst, src, image.Point{}, draw.Over)
		return
	}
	// backward diagonal, one view pixel wide every 8 view pixels
	period := 8 * r.scale
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			if (x+y)%period < r.scale {
				r.img.Set(x, y, b.Color)
			}
		}
	}
}

func (r *Raster) FrameRect(rc image.Rectangle, p roadview.Pen) {
	pts := []image.Point{
		rc.Min, {rc.Max.X - 1, rc.Min.Y}, {rc.Max.X - 1, rc.Max.Y - 1}, {rc.Min.X, rc.Max.Y - 1}, rc.Min,
	}
	r.Polyline(pts, p)
}

func (r *Raster) FillPolygon(pts []image.Point, b roadview.Brush) {
	if len(pts) < 3 {
		return
	}
	bounds := r.img.Bounds()
	r.ras.Reset(bounds.Dx(), bounds.Dy())
	x, y := r.pt(pts[0])
	r.ras.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = r.pt(p)
		r.ras.LineTo(x, y)
	}
	r.ras.ClosePath()
	r.ras.Draw(r.img, bounds, image.NewUniform(b.Color), image.Point{})
}

func (r *Raster) Polyline(pts []image.Point, p roadview.Pen) {
	for i := 1; i < len(pts); i++ {
		r.Line(pts[i-1], pts[i], p)
	}
}

func (r *Raster) Line(from, to image.Point, p roadview.Pen) {
	w := float32(max(p.Width, 1) * r.scale)
	x0, y0 := r.pt(from)
	x1, y1 := r.pt(to)
	if !p.Dotted {
		r.stroke(x0, y0, x1, y1, w, p.Color)
		return
	}
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	on, period := float32(r.scale), float32(3*r.scale)
	for d := float32(0); d < length; d += period {
		e := min(d+on, length)
		r.stroke(x0+dx*d/length, y0+dy*d/length, x0+dx*e/length, y0+dy*e/length, w, p.Color)
	}
}

// stroke fills the rectangle of width w around the segment, with square
// caps so joints of a polyline stay closed.
func (r *Raster) stroke(x0, y0, x1, y1, w float32, c color.Color) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	h := w / 2
	var ux, uy float32 = 1, 0
	if length > 0 {
		ux, uy = dx/length, dy/length
	}
	// extend both ends by half the width
	x0, y0 = x0-ux*h, y0-uy*h
	x1, y1 = x1+ux*h, y1+uy*h
	nx, ny := -uy*h, ux*h

	bounds := r.img.Bounds()
	r.ras.Reset(bounds.Dx(), bounds.Dy())
	r.ras.MoveTo(x0+nx, y0+ny)
	r.ras.LineTo(x1+nx, y1+ny)
	r.ras.LineTo(x1-nx, y1-ny)
	r.ras.LineTo(x0-nx, y0-ny)
	r.ras.ClosePath()
	r.ras.Draw(r.img, bounds, image.NewUniform(c), image.Point{})
}

func (r *Raster) face(f roadview.Font) font.Face {
	key := faceKey{size: max(f.Size, 1) * r.scale, bold: f.Bold}
	if face, ok := r.faces[key]; ok {
		return face
	}
	fnt := regularFont
	if f.Bold {
		fnt = boldFont
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(key.size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err) // embedded fonts always load
	}
	r.faces[key] = face
	return face
}

func (r *Raster) Text(rc image.Rectangle, s string, f roadview.Font, c color.Color, a roadview.Align) {
	face := r.face(f)
	dst := r.rect(rc)
	width := font.MeasureString(face, s).Ceil()
	x := dst.Min.X
	switch a {
	case roadview.AlignCenter:
		x = (dst.Min.X+dst.Max.X)/2 - width/2
	case roadview.AlignRight:
		x = dst.Max.X - width
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, dst.Min.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func (r *Raster) Blit(at image.Point, img image.Image) {
	b := img.Bounds()
	dst := r.rect(image.Rectangle{Min: at, Max: at.Add(b.Size())})
	draw.ApproxBiLinear.Scale(r.img, dst, img, b, draw.Over, nil)
}

// Rasterize paints a view into a new image of opts.Width x opts.Height,
// drawing at the supersampling factor and scaling down.
func Rasterize(paint PaintFunc, opts PNGOptions) *image.RGBA {
	k := max(opts.Supersample, 1)
	size := image.Pt(opts.Width, opts.Height)

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*k, opts.Height*k))
	paint(NewRaster(large, k), size)
	if k == 1 {
		return large
	}
	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Src, nil)
	return final
}

// RenderPNG paints a view and encodes it as PNG.
func RenderPNG(w io.Writer, paint PaintFunc, opts PNGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if err := png.Encode(w, Rasterize(paint, opts)); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}
