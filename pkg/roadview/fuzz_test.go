package roadview

import (
	"image"
	"testing"

	"github.com/ha1tch/roadview/pkg/horizon"
)

// fuzzHorizon builds a three-link horizon whose samples are read from data,
// four bytes each: type, distance in 10 m steps, info, link.
func fuzzHorizon(data []byte) *horizon.Horizon {
	h := horizon.New()
	h.AddLink(horizon.Link{ID: 1, LengthCM: 40000, Children: []horizon.LinkID{2, 3}, Probability: 1})
	h.AddLink(horizon.Link{ID: 2, LengthCM: 60000, TurnAngles: map[horizon.LinkID]int{1: 0}, Probability: 0.7})
	h.AddLink(horizon.Link{ID: 3, LengthCM: 20000, TurnAngles: map[horizon.LinkID]int{1: -60}, Probability: 0.3})
	h.SetPath(1, 2)

	types := int(horizon.AttrCustom) + 1
	for i := 0; i+3 < len(data); i += 4 {
		link := horizon.LinkID(data[i+3]%3 + 1)
		h.AddSample(horizon.Sample{
			DistanceCM:  (int(data[i+1]) - 16) * 1000,
			Type:        horizon.AttrType(int(data[i]) % types),
			Info:        uint32(data[i+2]),
			LinkID:      link,
			LengthCM:    h.Links[link].LengthCM,
			Probability: 1,
			IsStart:     data[i+2]&1 == 1,
		})
	}
	return h
}

// FuzzAggregate checks the list invariants for arbitrary sample streams
// and paints the result.
// Run with: go test -fuzz=FuzzAggregate -fuzztime=30s ./pkg/roadview/
func FuzzAggregate(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{byte(horizon.AttrNumberOfLanes), 20, 2, 0, byte(horizon.AttrNumberOfLanes), 40, 4, 0})
	f.Add([]byte{byte(horizon.AttrCrossingSame), 56, 0, 0, byte(horizon.AttrCrossingBig), 56, 0, 0})
	f.Add([]byte{byte(horizon.AttrTunnel), 0, 0, 0, byte(horizon.AttrTunnel), 30, 0, 0, byte(horizon.AttrRoundabout), 80, 0, 1})
	f.Add([]byte{byte(horizon.AttrTSSpeedLimit), 30, 51, 1, byte(horizon.AttrTSStop), 50, 0, 0})
	f.Add([]byte{byte(horizon.AttrTSSignLaneMergeLeft), 90, 3, 1, byte(horizon.AttrCustom), 255, 255, 255})

	f.Fuzz(func(t *testing.T, data []byte) {
		h := fuzzHorizon(data)
		res := Aggregate(h, h, DefaultAggregateOptions())

		if len(res.Signs) == 0 {
			t.Fatal("no signs")
		}
		for i := 1; i < len(res.Signs); i++ {
			if res.Signs[i].DistanceM < res.Signs[i-1].DistanceM {
				t.Fatalf("signs out of order at %d: %d < %d", i, res.Signs[i].DistanceM, res.Signs[i-1].DistanceM)
			}
		}
		if last := res.Signs[len(res.Signs)-1]; last.DistanceM < res.PathLengthM {
			t.Fatalf("last sign at %d m does not cover the %d m path", last.DistanceM, res.PathLengthM)
		}
		for i := 1; i < len(res.Areas); i++ {
			a, b := res.Areas[i-1], res.Areas[i]
			if a.StartM == b.StartM && a.Category == b.Category {
				t.Fatalf("duplicate area %v", b)
			}
		}

		// Painting should not panic
		opts := DefaultPainterOptions()
		opts.Debug = true
		snap := &Snapshot{Result: res, Root: ResolveRoot(h, h, 1)}
		for _, cm := range []int{ZoomMinCM, ZoomDefaultCM, ZoomMaxCM} {
			NewPainter(opts).Paint(&Recorder{}, image.Pt(800, 300), snap, Scale{DisplayedCM: cm})
		}
	})
}
