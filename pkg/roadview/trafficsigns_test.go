package roadview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/roadview/pkg/horizon"
)

func TestTrafficSignAreas(t *testing.T) {
	tests := []struct {
		name    string
		typ     horizon.AttrType
		info    uint32
		isStart bool
		length  int
		want    Area
	}{
		{
			name: "stop",
			typ:  horizon.AttrTSStop,
			want: Area{Category: CategoryStop, StartM: 100, EndM: 100, Width: 3, RealSign: true},
		},
		{
			name:    "speed limit with duration",
			typ:     horizon.AttrTSSpeedLimit,
			info:    horizon.SignInfo(80, horizon.ValidityDuration),
			isStart: true,
			length:  25000,
			want: Area{Category: CategorySpeedLimit, StartM: 100, EndM: 350, Width: 3, Number: 80,
				DistanceOrDuration: 250, Duration: true, RealSign: true},
		},
		{
			name:   "speed limit end",
			typ:    horizon.AttrTSSpeedLimit,
			info:   horizon.SignInfo(80, horizon.ValidityNone),
			length: 25000,
			want:   Area{Category: CategorySpeedLimitEnd, StartM: 100, EndM: 100, Width: 3, Number: 80, RealSign: true},
		},
		{
			name:   "slope valid from",
			typ:    horizon.AttrTSSteepUphill,
			info:   horizon.SignInfo(12, horizon.ValidityStart),
			length: 5000,
			want: Area{Category: CategorySlope, StartM: 100, EndM: 100, Width: 3, Number: 12,
				DistanceOrDuration: 50, RealSign: true},
		},
		{
			name:    "overtaking allowed",
			typ:     horizon.AttrTSOvertakeCC,
			isStart: true,
			want:    Area{Category: CategoryOvertakeAllowed, StartM: 100, EndM: 100, Width: 3, RealSign: true},
		},
		{
			name: "overtaking prohibited",
			typ:  horizon.AttrTSOvertakeTC,
			want: Area{Category: CategoryOvertakeTCProhibited, StartM: 100, EndM: 100, Width: 3, RealSign: true},
		},
		{
			name:   "traffic signal has no validity",
			typ:    horizon.AttrTSTrafficLight,
			info:   horizon.SignInfo(0, horizon.ValidityDuration),
			length: 3000,
			want:   Area{Category: CategoryTrafficLight, StartM: 100, EndM: 130, Width: 3},
		},
		{
			name: "posted traffic light",
			typ:  horizon.AttrTSTrafficLightSign,
			want: Area{Category: CategoryTrafficLight, StartM: 100, EndM: 100, Width: 3, RealSign: true},
		},
		{
			name: "custom",
			typ:  horizon.AttrCustom,
			want: Area{Category: CategoryFree, StartM: 100, EndM: 100, Width: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := straightRoad(500)
			h.AddSample(horizon.Sample{
				DistanceCM: 10000, Type: tt.typ, Info: tt.info, LinkID: 1,
				LengthCM: tt.length, Probability: 1, IsStart: tt.isStart,
			})
			got := TrafficSignAreas(h, h.MostProbablePath(), 3)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestTrafficSignAreasCrosswalkOnce(t *testing.T) {
	h := straightRoad(500)
	at(h, 100, horizon.AttrTSPedestrianCrosswalk, 0)
	got := TrafficSignAreas(h, h.MostProbablePath(), 1)
	require.Len(t, got, 1)
	assert.Equal(t, CategoryPedestrianCrossing, got[0].Category)
}

func TestTrafficSignAreasSkipsNonSigns(t *testing.T) {
	h := straightRoad(500)
	at(h, 100, horizon.AttrNumberOfLanes, 2)
	at(h, 150, horizon.AttrTunnel, 0)
	at(h, -10, horizon.AttrTSStop, 0)
	assert.Empty(t, TrafficSignAreas(h, h.MostProbablePath(), 1))
}

func TestLaneCount(t *testing.T) {
	tests := []struct {
		name     string
		own      []uint32
		opposite []uint32
		oneWay   bool
		want     int
	}{
		{"missing", nil, nil, false, 1},
		{"ambiguous", []uint32{2, 3}, nil, false, 1},
		{"own only", []uint32{2}, nil, false, 2},
		{"with opposite", []uint32{2}, []uint32{1}, false, 2 + 1<<6},
		{"one way", []uint32{3}, []uint32{1}, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := straightRoad(100)
			for _, n := range tt.own {
				at(h, 10, horizon.AttrADASNumberOfLanes, n)
			}
			for _, n := range tt.opposite {
				at(h, 10, horizon.AttrADASOppositeNumberOfLanes, n)
			}
			if tt.oneWay {
				at(h, 10, horizon.AttrRightWay, 0)
			}
			assert.Equal(t, tt.want, LaneCount(h, horizon.Sample{LinkID: 1}))
		})
	}
}

func TestLaneAdvisoryNumbers(t *testing.T) {
	tests := []struct {
		name string
		fn   laneNumber
		in   int
		want int
	}{
		{"lanes single", lanesAdvisory, 1, 2},
		{"lanes single with opposite", lanesAdvisory, 1 + 2<<6, 2 + 2<<6},
		{"lanes multi", lanesAdvisory, 3, 2},
		{"extra lane", extraLane, 2 + 1<<6, 3},
		{"merge single", mergeLane, 1, 1},
		{"merge", mergeLane, 3 + 1<<6, 2},
		{"merge center", mergeCenter, 4, 3},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("%s(%d) = %d, want %d", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestSignRulesCoverTrafficSigns(t *testing.T) {
	for typ := horizon.AttrAny; typ <= horizon.AttrCustom; typ++ {
		if !typ.IsTrafficSign() {
			continue
		}
		_, ok := signRules[typ]
		assert.True(t, ok, "no rule for %s", typ)
	}
}
