package roadview

import "github.com/ha1tch/roadview/pkg/horizon"

// straightRoad returns a horizon with one path link of lengthM meters.
func straightRoad(lengthM int) *horizon.Horizon {
	h := horizon.New()
	h.AddLink(horizon.Link{ID: 1, LengthCM: lengthM * 100, Probability: 1})
	h.SetPath(1)
	return h
}

// at adds a sample of type t on link 1 at distM meters.
func at(h *horizon.Horizon, distM int, t horizon.AttrType, info uint32) {
	h.AddSample(horizon.Sample{
		DistanceCM:  distM * 100,
		Type:        t,
		Info:        info,
		LinkID:      1,
		LengthCM:    h.Links[1].LengthCM,
		Probability: 1,
	})
}

func distances(signs []Sign) []int {
	out := make([]int, len(signs))
	for i, s := range signs {
		out[i] = s.DistanceM
	}
	return out
}

func blocksOf(blocks []Block, kind BlockKind) []Block {
	var out []Block
	for _, b := range blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}
