package roadview

import (
	"image"

	"github.com/ha1tch/roadview/pkg/horizon"
)

// BlockKind tells how a laid out block is drawn.
type BlockKind int

const (
	// BlockSegment is a straight stretch of road.
	BlockSegment BlockKind = iota
	// BlockTransition joins two segments: a lane change or a crossing.
	BlockTransition
	// BlockComplex replaces transitions too close to draw apart.
	BlockComplex
)

func (k BlockKind) String() string {
	switch k {
	case BlockSegment:
		return "segment"
	case BlockTransition:
		return "transition"
	case BlockComplex:
		return "complex"
	}
	return "unknown"
}

// Block is one horizontal piece of the road, in absolute pixels.
type Block struct {
	Kind  BlockKind
	Start int
	End   int
	// Lanes is the lane count of a segment or complex block, and the
	// count after a transition.
	Lanes int
	// PrevLanes is the count before a transition.
	PrevLanes int
	// CrossingSize is non-zero for a transition at a crossing.
	CrossingSize float64
	Side         CrossingSide
	Prohibited   ProhibitedSide
	LinkID       horizon.LinkID
}

// Width returns the horizontal extent of b.
func (b Block) Width() int {
	return b.End - b.Start
}

// IsCrossing reports whether a transition is drawn as a crossing.
func (b Block) IsCrossing() bool {
	return b.Kind == BlockTransition && b.CrossingSize > 0 && b.PrevLanes == b.Lanes
}

// DefaultMergeTolerance is the gap, in pixels, under which two transitions
// merge into a complex block.
const DefaultMergeTolerance = 1

// LayoutParams holds what the layout of one pass depends on.
type LayoutParams struct {
	Road        image.Rectangle
	Scale       Scale
	WidthFactor int
	StartLanes  int
	// MergeTolerance is the minimum segment width in pixels; narrower
	// segments collapse into a complex block.
	MergeTolerance int
}

// unit is the pixel width of one lane of a transition.
func (p LayoutParams) unit() float64 {
	if p.WidthFactor <= 0 {
		return 0
	}
	return float64(p.Road.Dy()) / float64(p.WidthFactor)
}

// LaneWidth returns the pixel width of half a lane pair.
func (p LayoutParams) LaneWidth() int {
	return LaneWidth(p.Road, p.WidthFactor)
}

func (p LayoutParams) px(distM int) int {
	return p.Scale.ToPixel(distM*100, p.Road.Dx())
}

// LayoutSegments turns the sorted sign list into road blocks, left to
// right. Each sign yields the segment before it followed by its
// transition, or a complex block when the two cannot be told apart.
// Blocks never run backwards: each starts at or after the end of the
// previous one, and a complex block squeezed to nothing has zero width.
// Layout stops at the first segment starting past the road's right edge.
func LayoutSegments(signs []Sign, p LayoutParams) []Block {
	var blocks []Block
	unit := p.unit()
	left := p.Road.Min.X
	cur, next := p.StartLanes, p.StartLanes
	laneChanged := false

	for i, s := range signs {
		next = s.LaneCount
		if i > 0 {
			prev := signs[i-1]
			cur = prev.LaneCount
			size := prev.CrossingSize
			if laneChanged {
				size = 0
			}
			laneChanged = false
			prevWidth := int(unit * float64(cur) * size)
			left = p.Road.Min.X + p.px(prev.DistanceM) + prevWidth/2
			if n := len(blocks); n > 0 {
				left = max(left, blocks[n-1].End)
			}
			if left > p.Road.Max.X {
				break
			}
		}

		dist := p.px(s.DistanceM)
		var width, right int
		if cur != next {
			width = int(unit * float64(abs(next-cur)))
			right = p.Road.Min.X + dist - width
			laneChanged = true
		} else {
			width = int(unit * float64(next) * s.CrossingSize)
			right = p.Road.Min.X + dist - width/2
		}
		width = max(width, 0)
		right = min(right, p.Road.Max.X)

		if right <= left+p.MergeTolerance {
			blocks = append(blocks, Block{
				Kind:   BlockComplex,
				Start:  left,
				End:    max(right+width, left),
				Lanes:  next,
				LinkID: s.LinkID,
			})
			continue
		}

		if i == 0 && dist <= width/2 {
			// The first transition starts at the edge: absorb it.
			blocks = append(blocks, Block{
				Kind:  BlockSegment,
				Start: left,
				End:   right + 2*width,
				Lanes: next,
			})
			continue
		}

		blocks = append(blocks, Block{Kind: BlockSegment, Start: left, End: right, Lanes: cur})
		if right+width <= p.Road.Max.X {
			blocks = append(blocks, Block{
				Kind:         BlockTransition,
				Start:        right,
				End:          right + width,
				Lanes:        next,
				PrevLanes:    cur,
				CrossingSize: s.CrossingSize,
				Side:         s.Side,
				Prohibited:   s.Prohibited,
				LinkID:       s.LinkID,
			})
		}
	}
	return blocks
}

// Band is a background rectangle behind the road for an area.
type Band struct {
	Area Area
	Rect image.Rectangle
}

// AreaBandExtra is the height, in pixels, a band exceeds the road by.
const AreaBandExtra = 2*RoadLinesGap + 10

// LayoutAreaBands places a band per area, clipped to the road rectangle.
// Zero-length areas are dropped, open areas run to the right edge and a
// band overlapping the previous one grows by 2 pixels. Layout stops at the
// first area starting past the right edge.
func LayoutAreaBands(areas []Area, p LayoutParams) []Band {
	var bands []Band
	lw := p.LaneWidth()
	center := RoadCenter(p.Road)
	width := p.Road.Dx()
	prevEnd := 0
	placed := false

	for _, a := range areas {
		h := a.Width*lw*2 + AreaBandExtra
		start := p.px(a.StartM)
		if start > width {
			break
		}
		if placed && start <= prevEnd {
			h += 2
		}
		end := p.px(a.EndM)
		if !a.Open() && end == start {
			continue
		}
		if a.Open() || end > width {
			end = width
		}
		prevEnd = end
		placed = true

		top := center - h/2
		bands = append(bands, Band{
			Area: a,
			Rect: image.Rect(p.Road.Min.X+start, top, p.Road.Min.X+end, top+h),
		})
	}
	return bands
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
