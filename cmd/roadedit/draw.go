package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/ha1tch/roadview/pkg/render"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// The view is painted at virtualWidth pixels across and scaled down to the
// terminal, two pixels per cell row.
const (
	virtualWidth     = 800
	virtualMinHeight = 200
	virtualMaxHeight = 600
)

const halfBlock = '▀'

func (ed *Viewer) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()
	if rows := h - 2; w > 0 && rows > 0 {
		drawHalfBlocks(ed.screen, ed.canvas(w, rows), 0, 0)
	}
	ed.drawStatusBar(w, h)
}

// canvas paints the view for a cols x rows cell area.
func (ed *Viewer) canvas(cols, rows int) *image.RGBA {
	vh := virtualWidth * rows * 2 / cols
	vh = min(max(vh, virtualMinHeight), virtualMaxHeight)
	big := render.Rasterize(ed.view.Paint, render.PNGOptions{Width: virtualWidth, Height: vh, Supersample: 1})

	small := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.CatmullRom.Scale(small, small.Bounds(), big, big.Bounds(), draw.Src, nil)
	return small
}

// drawHalfBlocks draws img at cell (x0, y0), each cell showing two
// vertically stacked pixels.
func drawHalfBlocks(s tcell.Screen, img image.Image, x0, y0 int) {
	b := img.Bounds()
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			style := styleDefault.Foreground(cellColor(img.At(x, y))).Background(cellColor(img.At(x, y+1)))
			s.SetContent(x0+x-b.Min.X, y0+(y-b.Min.Y)/2, halfBlock, nil, style)
		}
	}
}

func cellColor(c color.Color) tcell.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return tcell.ColorBlack
	}
	r, g, b := cf.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (ed *Viewer) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	ed.drawString(1, y, filepath.Base(ed.horizonPath), styleStatus)

	zoom := ed.zoomString()
	ed.drawString(w/2-len(zoom)/2, y, zoom, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(ed.messageType) && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		msg := truncate(ed.message, max(w/2-len(zoom)/2-2, 0))
		ed.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, "Wheel/+/-:Zoom  A:Auto zoom  D:Debug  R:Reload  Q:Quit", styleHelp)
}

func (ed *Viewer) zoomString() string {
	z := ed.view.Zoom()
	s := fmt.Sprintf("%d m", z.LengthCM/100)
	if z.Auto {
		s += " (auto)"
	}
	if ed.view.Snapshot() == nil {
		s += " no data"
	}
	return s
}

func (ed *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
