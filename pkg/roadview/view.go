package roadview

import (
	"image"
	"sync/atomic"

	"github.com/ha1tch/roadview/pkg/horizon"
)

// Source is what a View aggregates from.
type Source interface {
	horizon.Attributes
	horizon.Links
}

// Snapshot is the immutable input of a paint pass.
type Snapshot struct {
	Result
	Root RootInfo
}

// View rebuilds snapshots on horizon events and paints the latest one.
//
// Snapshots are published atomically, so readers of Snapshot may run on
// any goroutine. Rebuilds (SetSource and the On* events) update the auto
// zoom and read the source, so they run on the goroutine that paints, as
// do Wheel, SetZoom and SetPainter.
type View struct {
	snap    atomic.Pointer[Snapshot]
	src     atomic.Pointer[sourceBox]
	opts    AggregateOptions
	zoom    Zoom
	painter *Painter
	repaint func()
}

type sourceBox struct{ Source }

// NewView returns an empty view.
func NewView(p *Painter, z Zoom, opts AggregateOptions) *View {
	return &View{painter: p, zoom: z, opts: opts}
}

// SetRepaint installs the callback invoked after every change that needs a
// new paint pass.
func (v *View) SetRepaint(fn func()) {
	v.repaint = fn
}

func (v *View) requestRepaint() {
	if v.repaint != nil {
		v.repaint()
	}
}

// SetSource replaces the horizon and rebuilds from it, taking the first
// path link as the root link.
func (v *View) SetSource(src Source) {
	if src == nil {
		v.src.Store(nil)
		v.OnClear()
		return
	}
	v.src.Store(&sourceBox{src})
	var root RootInfo
	if mpp := src.MostProbablePath(); len(mpp) > 0 {
		root = ResolveRoot(src, src, mpp[0])
	}
	v.publish(root)
}

// OnClear drops the current snapshot.
func (v *View) OnClear() {
	v.snap.Store(nil)
	v.requestRepaint()
}

// OnPositionChanged rebuilds the snapshot from the current source,
// keeping the root link info.
func (v *View) OnPositionChanged() {
	var root RootInfo
	if cur := v.snap.Load(); cur != nil {
		root = cur.Root
	}
	v.publish(root)
}

// OnRootLink records a new root link: its city flag drives the auto zoom,
// its speed the speed glyph.
func (v *View) OnRootLink(id horizon.LinkID) {
	box := v.src.Load()
	if box == nil {
		return
	}
	root := ResolveRoot(box, box, id)
	Logger().Debug("root link", "link", id, "in_city", root.InCity, "speed", root.Speed)
	if cur := v.snap.Load(); cur != nil {
		next := *cur
		next.Root = root
		v.snap.Store(&next)
	}
	v.zoom.SetInCity(root.InCity)
	v.requestRepaint()
}

func (v *View) publish(root RootInfo) {
	box := v.src.Load()
	if box == nil {
		v.OnClear()
		return
	}
	snap := &Snapshot{Result: Aggregate(box, box, v.opts), Root: root}
	v.snap.Store(snap)
	v.zoom.SetInCity(root.InCity)
	v.requestRepaint()
}

// Snapshot returns the latest published snapshot, nil when cleared.
func (v *View) Snapshot() *Snapshot {
	return v.snap.Load()
}

// Wheel steps the zoom; see Zoom.Wheel.
func (v *View) Wheel(delta int) bool {
	if !v.zoom.Wheel(delta) {
		return false
	}
	v.requestRepaint()
	return true
}

// Zoom returns the current zoom state.
func (v *View) Zoom() Zoom {
	return v.zoom
}

// SetZoom replaces the zoom state, keeping the auto preset in effect.
func (v *View) SetZoom(z Zoom) {
	v.zoom = z
	if cur := v.snap.Load(); cur != nil {
		v.zoom.SetInCity(cur.Root.InCity)
	}
	v.requestRepaint()
}

// SetPainter replaces the painter.
func (v *View) SetPainter(p *Painter) {
	v.painter = p
	v.requestRepaint()
}

// SetAggregateOptions replaces the aggregation options and rebuilds.
func (v *View) SetAggregateOptions(opts AggregateOptions) {
	v.opts = opts
	v.OnPositionChanged()
}

// Painter returns the current painter.
func (v *View) Painter() *Painter {
	return v.painter
}

// Paint draws the latest snapshot at the current zoom.
func (v *View) Paint(s Surface, size image.Point) {
	v.painter.Paint(s, size, v.snap.Load(), v.zoom.Scale())
}
