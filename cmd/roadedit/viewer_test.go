package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/roadview/pkg/horizon"
	"github.com/ha1tch/roadview/pkg/roadview"
)

func writeHorizon(t *testing.T, path string, lanes uint32) {
	t.Helper()
	h := horizon.New()
	h.AddLink(horizon.Link{ID: 1, LengthCM: 100000, Probability: 1})
	h.SetPath(1)
	h.AddSample(horizon.Sample{DistanceCM: 30000, Type: horizon.AttrNumberOfLanes, Info: lanes, LinkID: 1, LengthCM: 100000, Probability: 1})
	h.AddSample(horizon.Sample{DistanceCM: 50000, Type: horizon.AttrTSStop, LinkID: 1, LengthCM: 100000, Probability: 1})
	require.NoError(t, horizon.WriteFile(path, h))
}

func newTestViewer(t *testing.T) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	dir := t.TempDir()
	hp := filepath.Join(dir, "drive.json")
	writeHorizon(t, hp, 2)

	ed := NewViewer(hp, filepath.Join(dir, "roadview.yaml"))
	require.NoError(t, ed.reloadConfig())
	require.NoError(t, ed.reloadHorizon())

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(100, 30)
	ed.attach(screen)
	return ed, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func rowText(s tcell.Screen, y, w int) string {
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestNewViewerDefaults(t *testing.T) {
	ed := NewViewer("drive.json", "roadview.yaml")
	assert.Equal(t, roadview.DefaultPainterOptions(), ed.view.Painter().Options())
	assert.Nil(t, ed.view.Snapshot())
	assert.Equal(t, "drive.json", ed.horizonPath)
}

func TestHalfBlocks(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(4, 2)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	drawHalfBlocks(screen, img, 1, 0)

	r, _, style, _ := screen.GetContent(1, 0)
	assert.Equal(t, halfBlock, r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)

	_, _, style, _ = screen.GetContent(2, 0)
	fg, _, _ = style.Decompose()
	assert.Equal(t, tcell.ColorBlack, fg, "transparent pixels")
}

func TestDraw(t *testing.T) {
	ed, screen := newTestViewer(t)
	ed.draw()

	r, _, _, _ := screen.GetContent(10, 5)
	assert.Equal(t, halfBlock, r)
	assert.Contains(t, rowText(screen, 29, 100), "drive.json")
	assert.Contains(t, rowText(screen, 28, 100), "Q:Quit")
}

func TestZoomKeys(t *testing.T) {
	ed, _ := newTestViewer(t)
	if ed.view.Zoom().Auto {
		ed.toggleAutoZoom()
	}
	start := ed.view.Zoom().LengthCM

	assert.False(t, ed.handleKey(key('-')))
	assert.Greater(t, ed.view.Zoom().LengthCM, start)
	assert.False(t, ed.handleKey(key('+')))
	assert.Equal(t, start, ed.view.Zoom().LengthCM)

	ed.handleMouse(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	assert.Less(t, ed.view.Zoom().LengthCM, start)

	ed.toggleAutoZoom()
	length := ed.view.Zoom().LengthCM
	ed.handleKey(key('-'))
	assert.Equal(t, length, ed.view.Zoom().LengthCM)
	assert.Equal(t, MsgWarning, ed.messageType)
}

func TestToggleDebug(t *testing.T) {
	ed, _ := newTestViewer(t)
	assert.False(t, ed.view.Painter().Options().Debug)
	ed.handleKey(key('d'))
	assert.True(t, ed.view.Painter().Options().Debug)

	require.NoError(t, ed.reloadConfig())
	assert.True(t, ed.view.Painter().Options().Debug, "debug survives a config reload")
}

func TestQuitKeys(t *testing.T) {
	ed, _ := newTestViewer(t)
	assert.True(t, ed.handleKey(key('q')))
	assert.True(t, ed.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, ed.handleKey(key('x')))
}

func TestReloadHorizon(t *testing.T) {
	ed, _ := newTestViewer(t)
	before := ed.view.Snapshot()
	require.NotNil(t, before)

	writeHorizon(t, ed.horizonPath, 3)
	ed.handleReload([]string{ed.horizonPath})
	assert.Equal(t, MsgSuccess, ed.messageType)
	after := ed.view.Snapshot()
	assert.NotSame(t, before, after)
	assert.Equal(t, 3, after.MaxLanes)

	require.NoError(t, os.WriteFile(ed.horizonPath, []byte("{"), 0644))
	ed.handleReload([]string{ed.horizonPath})
	assert.Equal(t, MsgError, ed.messageType)
	assert.Same(t, after, ed.view.Snapshot(), "a broken file keeps the last view")
}

func TestReloadConfig(t *testing.T) {
	ed, _ := newTestViewer(t)
	require.NoError(t, os.WriteFile(ed.configPath, []byte("layout:\n  merge_tolerance_px: 5\n"), 0644))
	ed.handleReload([]string{ed.configPath})
	assert.Equal(t, MsgSuccess, ed.messageType)
	assert.Equal(t, 5, ed.view.Painter().Options().MergeTolerance)

	require.NoError(t, os.WriteFile(ed.configPath, []byte("lanes:\n  width_factor: 0\n"), 0644))
	ed.handleReload([]string{ed.configPath})
	assert.Equal(t, MsgError, ed.messageType)
	assert.Equal(t, 5, ed.view.Painter().Options().MergeTolerance)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdefgh", 2))
}
