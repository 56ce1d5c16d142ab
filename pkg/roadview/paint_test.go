package roadview

import (
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/roadview/pkg/horizon"
)

var canvas = image.Pt(800, 400)

func firstCall(calls []Call, match func(Call) bool) int {
	return slices.IndexFunc(calls, match)
}

func withColor(c color.RGBA) func(Call) bool {
	return func(call Call) bool { return call.Color == c }
}

func TestPaintEmpty(t *testing.T) {
	p := NewPainter(DefaultPainterOptions())
	rec := &Recorder{}
	p.Paint(rec, canvas, nil, Scale{DisplayedCM: 100000})

	require.NotEmpty(t, rec.Calls)
	assert.Equal(t, "fill_rect", rec.Calls[0].Op)
	assert.Equal(t, image.Rect(0, 0, 800, 400), rec.Calls[0].Rect)
	assert.Len(t, rec.Filter("blit"), 1)
	assert.Equal(t, []string{"1000 m", "500", "0"}, rec.Texts())
	assert.Empty(t, rec.Filter("polygon"))
}

func TestPaintNarrowCanvasDropsCar(t *testing.T) {
	p := NewPainter(DefaultPainterOptions())
	rec := &Recorder{}
	p.Paint(rec, image.Pt(120, 200), nil, Scale{DisplayedCM: 100000})
	assert.Empty(t, rec.Filter("blit"))
	assert.Equal(t, 0, p.Frame(image.Pt(120, 200)).CarWidth)
}

func paintedHorizon() *horizon.Horizon {
	h := straightRoad(1000)
	at(h, 100, horizon.AttrTunnel, 0)
	at(h, 200, horizon.AttrTunnel, 0)
	at(h, 300, horizon.AttrNumberOfLanes, 2)
	at(h, 400, horizon.AttrTSStop, 0)
	at(h, 600, horizon.AttrCrossingSame, 0)
	return h
}

func TestPaintOrder(t *testing.T) {
	opts := DefaultPainterOptions()
	opts.Debug = true
	p := NewPainter(opts)
	h := paintedHorizon()
	snap := &Snapshot{Result: Aggregate(h, h, DefaultAggregateOptions())}

	rec := &Recorder{}
	p.Paint(rec, canvas, snap, Scale{DisplayedCM: 100000})
	pal := opts.Palette

	band := firstCall(rec.Calls, withColor(pal.Tunnel))
	road := firstCall(rec.Calls, func(c Call) bool { return c.Op == "line" && c.Color == pal.Lines })
	stop := firstCall(rec.Calls, func(c Call) bool { return c.Op == "text" && c.Text == "STOP" })
	debug := firstCall(rec.Calls, withColor(pal.Debug))
	require.True(t, band >= 0 && road >= 0 && stop >= 0 && debug >= 0, "band %d road %d stop %d debug %d", band, road, stop, debug)
	assert.Less(t, band, road, "areas before the road")
	assert.Less(t, road, stop, "road before the signs")
	assert.Less(t, stop, debug, "debug overlay last")
	assert.Contains(t, rec.Texts(), "1")

	poles := 0
	for _, c := range rec.Filter("polyline") {
		if c.Color == pal.Scale && !c.Dotted {
			poles++
		}
	}
	assert.Equal(t, 1, poles, "one solid pole for the stop sign")
}

func TestPaintHidesDisabledLayers(t *testing.T) {
	opts := DefaultPainterOptions()
	opts.Visibility[GroupTunnel] = false
	opts.Visibility[GroupOther] = false
	p := NewPainter(opts)
	h := paintedHorizon()
	snap := &Snapshot{Result: Aggregate(h, h, DefaultAggregateOptions())}

	rec := &Recorder{}
	p.Paint(rec, canvas, snap, Scale{DisplayedCM: 100000})
	assert.Equal(t, -1, firstCall(rec.Calls, withColor(opts.Palette.Tunnel)))
	assert.NotContains(t, rec.Texts(), "STOP")
	assert.NotContains(t, rec.Texts(), "1", "no debug labels by default")
}

func TestPaintComplexIsHatched(t *testing.T) {
	h := straightRoad(1000)
	at(h, 500, horizon.AttrCrossingSame, 0)
	at(h, 501, horizon.AttrCrossingSame, 0)
	p := NewPainter(DefaultPainterOptions())
	snap := &Snapshot{Result: Aggregate(h, h, DefaultAggregateOptions())}

	rec := &Recorder{}
	p.Paint(rec, canvas, snap, Scale{DisplayedCM: 100000})
	hatched := firstCall(rec.Calls, func(c Call) bool { return c.Op == "fill_rect" && c.Hatch })
	assert.GreaterOrEqual(t, hatched, 0)
}

func TestPaintRootGlyphs(t *testing.T) {
	p := NewPainter(DefaultPainterOptions())
	snap := &Snapshot{Root: RootInfo{InCity: true, Speed: 50, SpeedIsCurrent: true}}
	snap.Start.Lanes = 1

	rec := &Recorder{}
	p.Paint(rec, canvas, snap, Scale{DisplayedCM: 30000})
	texts := rec.Texts()
	assert.Contains(t, texts, "CITY")
	assert.Contains(t, texts, "50")
	assert.Contains(t, texts, "300 m")

	opts := DefaultPainterOptions()
	opts.ShowSpeed = false
	rec.Reset()
	NewPainter(opts).Paint(rec, canvas, snap, Scale{DisplayedCM: 30000})
	assert.NotContains(t, rec.Texts(), "50")
}

func TestSpeedCategory(t *testing.T) {
	tests := []struct {
		root RootInfo
		want Category
	}{
		{RootInfo{Speed: 50, SpeedIsCurrent: true}, CategorySpeedLimit},
		{RootInfo{Speed: 90}, CategoryExpectedSpeedLimit},
		{RootInfo{Speed: 997, SpeedIsCurrent: true}, CategorySpeedLimitEnd},
	}
	for _, tt := range tests {
		if got := tt.root.SpeedCategory(); got != tt.want {
			t.Errorf("%+v: got %s, want %s", tt.root, got, tt.want)
		}
	}
}

func TestResolveRoot(t *testing.T) {
	h := straightRoad(100)
	l := h.Links[1]
	l.InCity = true
	h.Links[1] = l
	at(h, 10, horizon.AttrExpectedSpeed, 70)

	root := ResolveRoot(h, h, 1)
	assert.Equal(t, RootInfo{LinkID: 1, InCity: true, Speed: 70}, root)

	at(h, 10, horizon.AttrCurrentSpeed, 50)
	root = ResolveRoot(h, h, 1)
	assert.Equal(t, 50, root.Speed)
	assert.True(t, root.SpeedIsCurrent)

	assert.Equal(t, RootInfo{LinkID: 42}, ResolveRoot(h, h, 42))
}

func TestCarImage(t *testing.T) {
	img := CarImage(44, 24)
	assert.Equal(t, image.Rect(0, 0, 44, 24), img.Bounds())
	_, _, _, a := img.At(22, 12).RGBA()
	assert.NotZero(t, a)
}
