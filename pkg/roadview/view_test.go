package roadview

import (
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/roadview/pkg/horizon"
)

func newTestView(z Zoom) (*View, *int) {
	v := NewView(NewPainter(DefaultPainterOptions()), z, DefaultAggregateOptions())
	repaints := 0
	v.SetRepaint(func() { repaints++ })
	return v, &repaints
}

func TestViewSourceLifecycle(t *testing.T) {
	v, repaints := newTestView(DefaultZoom())
	assert.Nil(t, v.Snapshot())

	h := straightRoad(1000)
	at(h, 10, horizon.AttrExpectedSpeed, 90)
	at(h, 300, horizon.AttrNumberOfLanes, 2)
	v.SetSource(h)

	snap := v.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 1, *repaints)
	assert.EqualValues(t, 1, snap.Root.LinkID)
	assert.Equal(t, 90, snap.Root.Speed)
	assert.Equal(t, []int{300, 1300}, distances(snap.Signs), "closing record one link length past the last lane sample")

	at(h, 600, horizon.AttrNumberOfLanes, 3)
	v.OnPositionChanged()
	next := v.Snapshot()
	assert.NotSame(t, snap, next, "rebuild publishes a new snapshot")
	assert.Equal(t, []int{300, 600, 1600}, distances(next.Signs))
	assert.Equal(t, snap.Root, next.Root, "root info survives a position change")
	assert.Len(t, snap.Signs, 2, "published snapshots are not mutated")

	v.OnClear()
	assert.Nil(t, v.Snapshot())

	v.SetSource(nil)
	assert.Nil(t, v.Snapshot())
	v.OnPositionChanged()
	assert.Nil(t, v.Snapshot(), "no rebuild without a source")
}

func TestViewWheel(t *testing.T) {
	v, repaints := newTestView(DefaultZoom())
	assert.True(t, v.Wheel(1))
	assert.Equal(t, ZoomDefaultCM+ZoomStepCM, v.Zoom().LengthCM)
	assert.Equal(t, 1, *repaints)

	z := v.Zoom()
	z.LengthCM = ZoomMaxCM
	v.SetZoom(z)
	*repaints = 0
	assert.False(t, v.Wheel(1))
	assert.Zero(t, *repaints, "refused step does not repaint")
}

func TestViewAutoZoomFollowsRootLink(t *testing.T) {
	z := DefaultZoom()
	z.Auto = true
	v, _ := newTestView(z)

	h := straightRoad(1000)
	l := h.Links[1]
	l.InCity = true
	l.Children = []horizon.LinkID{2}
	h.Links[1] = l
	h.AddLink(horizon.Link{ID: 2, LengthCM: 50000})
	h.SetPath(1, 2)

	v.SetSource(h)
	assert.Equal(t, CityInScaleCM, v.Zoom().LengthCM)
	assert.True(t, v.Snapshot().Root.InCity)

	v.OnRootLink(2)
	assert.Equal(t, CityOutScaleCM, v.Zoom().LengthCM)
	assert.EqualValues(t, 2, v.Snapshot().Root.LinkID)
	assert.False(t, v.Wheel(-1), "auto zoom ignores the wheel")
}

func TestViewRootLinkWithoutSource(t *testing.T) {
	v, repaints := newTestView(DefaultZoom())
	v.OnRootLink(5)
	assert.Nil(t, v.Snapshot())
	assert.Zero(t, *repaints)
}

func TestViewSnapshotReadersDuringRebuild(t *testing.T) {
	z := DefaultZoom()
	z.Auto = true
	v, _ := newTestView(z)

	city := straightRoad(1000)
	l := city.Links[1]
	l.InCity = true
	city.Links[1] = l
	at(city, 300, horizon.AttrNumberOfLanes, 2)
	road := straightRoad(1000)
	at(road, 300, horizon.AttrNumberOfLanes, 3)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for j := 0; j < 4; j++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if snap := v.Snapshot(); snap != nil {
					_ = len(snap.Signs)
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			v.SetSource(city)
			assert.Equal(t, CityInScaleCM, v.Zoom().LengthCM, "zoom follows the rebuild before it returns")
		} else {
			v.SetSource(road)
			assert.Equal(t, CityOutScaleCM, v.Zoom().LengthCM)
		}
		v.OnPositionChanged()
	}
	close(done)
	wg.Wait()
	assert.Equal(t, 3, v.Snapshot().MaxLanes)
}

func TestViewPaint(t *testing.T) {
	v, _ := newTestView(DefaultZoom())
	h := straightRoad(1000)
	at(h, 200, horizon.AttrTSStop, 0)
	v.SetSource(h)

	rec := &Recorder{}
	v.Paint(rec, image.Pt(800, 400))
	assert.Contains(t, rec.Texts(), "1000 m")
	assert.Contains(t, rec.Texts(), "STOP")

	opts := DefaultPainterOptions()
	opts.Visibility[GroupOther] = false
	v.SetPainter(NewPainter(opts))
	rec.Reset()
	v.Paint(rec, image.Pt(800, 400))
	assert.NotContains(t, rec.Texts(), "STOP")
}

func TestViewAggregateOptionsRebuild(t *testing.T) {
	v, _ := newTestView(DefaultZoom())
	h := straightRoad(1000)
	at(h, 200, horizon.AttrCrossingSame, 0)
	v.SetSource(h)
	require.NotNil(t, v.Snapshot())
	assert.Equal(t, CrossingFactorSame, v.Snapshot().Signs[0].CrossingSize)

	opts := DefaultAggregateOptions()
	opts.CrossingSame = 0.75
	v.SetAggregateOptions(opts)
	assert.Equal(t, 0.75, v.Snapshot().Signs[0].CrossingSize)
}
