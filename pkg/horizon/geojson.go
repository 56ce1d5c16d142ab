package horizon

import (
	"math"
	"sort"
	"strconv"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
)

// ImportGeoJSON builds a horizon from a GeoJSON FeatureCollection.
//
// LineString features are links. Properties: id (required), children,
// internal_id, probability, in_city, left_hand, and mpp (the 0-based order
// of the link on the most probable path). The first path link may carry
// position_m, the current position measured from its start.
//
// Point features are attribute samples. Properties: type and link
// (required), offset_m (along the link, default: nearest vertex), info or
// number+validity, length_m (default: the link length), probability,
// is_start.
//
// Link lengths come from the geodesic length of the geometry and turn
// angles from the bearing change between a parent's last segment and the
// child's first segment.
func ImportGeoJSON(data []byte) (*Horizon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode geojson")
	}

	h := New()
	lines := make(map[LinkID]orb.LineString)
	order := make(map[LinkID]int)
	position := 0.0

	for i, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsLineString() {
			continue
		}
		idf, err := f.PropertyFloat64("id")
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		id := LinkID(idf)
		line := toLineString(f.Geometry.LineString)
		if len(line) < 2 {
			return nil, errors.Errorf("feature %d: link %d needs at least two points", i, id)
		}
		lines[id] = line

		l := Link{
			ID:              id,
			InternalID:      stringProp(f, "internal_id", strconv.FormatUint(uint64(id), 10)),
			LengthCM:        int(math.Round(geo.Length(line) * 100)),
			Children:        idsProp(f, "children"),
			TurnAngles:      make(map[LinkID]int),
			Probability:     floatProp(f, "probability", 1),
			InCity:          boolProp(f, "in_city"),
			LeftHandTraffic: boolProp(f, "left_hand"),
		}
		h.AddLink(l)

		if mpp, err := f.PropertyFloat64("mpp"); err == nil {
			order[id] = int(mpp)
			if int(mpp) == 0 {
				position = floatProp(f, "position_m", 0)
			}
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoGeometry
	}

	for pid, parent := range h.Links {
		in := geo.Bearing(lines[pid][len(lines[pid])-2], lines[pid][len(lines[pid])-1])
		for _, cid := range parent.Children {
			cl, ok := lines[cid]
			if !ok {
				return nil, errors.Errorf("link %d: unknown child %d", pid, cid)
			}
			out := geo.Bearing(cl[0], cl[1])
			h.Links[cid].TurnAngles[pid] = turnAngle(in, out)
		}
	}

	path := make([]LinkID, 0, len(order))
	for id := range order {
		path = append(path, id)
	}
	sort.Slice(path, func(a, b int) bool { return order[path[a]] < order[path[b]] })
	h.SetPath(path...)

	// Offset of each path link start from the current position, in meters.
	startM := make(map[LinkID]float64)
	acc := -position
	for _, id := range path {
		startM[id] = acc
		acc += float64(h.Links[id].LengthCM) / 100
	}

	for i, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPoint() {
			continue
		}
		s, err := sampleFromFeature(f, h, lines, startM)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		h.AddSample(s)
	}

	if err := h.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid horizon")
	}
	return h, nil
}

func sampleFromFeature(f *geojson.Feature, h *Horizon, lines map[LinkID]orb.LineString, startM map[LinkID]float64) (Sample, error) {
	name, err := f.PropertyString("type")
	if err != nil {
		return Sample{}, err
	}
	typ, err := ParseAttrType(name)
	if err != nil {
		return Sample{}, err
	}
	idf, err := f.PropertyFloat64("link")
	if err != nil {
		return Sample{}, err
	}
	id := LinkID(idf)
	link, ok := h.Links[id]
	if !ok {
		return Sample{}, errors.Errorf("unknown link %d", id)
	}

	offset, err := f.PropertyFloat64("offset_m")
	if err != nil {
		pt := orb.Point{f.Geometry.Point[0], f.Geometry.Point[1]}
		offset = alongLine(lines[id], pt)
	}

	info := uint32(floatProp(f, "info", 0))
	if n, err := f.PropertyFloat64("number"); err == nil {
		v, err := parseValidity(stringProp(f, "validity", ""))
		if err != nil {
			return Sample{}, err
		}
		info = SignInfo(int(n), v)
	}

	lengthCM := link.LengthCM
	if lm, err := f.PropertyFloat64("length_m"); err == nil {
		lengthCM = int(math.Round(lm * 100))
	}

	return Sample{
		DistanceCM:  int(math.Round((startM[id] + offset) * 100)),
		Type:        typ,
		Info:        info,
		LinkID:      id,
		LengthCM:    lengthCM,
		Probability: floatProp(f, "probability", 1),
		IsStart:     boolProp(f, "is_start"),
	}, nil
}

// turnAngle returns the signed heading change in degrees, in (-180, 180].
func turnAngle(in, out float64) int {
	d := math.Mod(out-in, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return int(math.Round(d))
}

// alongLine returns the distance in meters from the start of line to the
// vertex nearest to pt.
func alongLine(line orb.LineString, pt orb.Point) float64 {
	best, bestAt, acc := math.Inf(1), 0.0, 0.0
	for i, p := range line {
		if i > 0 {
			acc += geo.Distance(line[i-1], p)
		}
		if d := geo.Distance(p, pt); d < best {
			best, bestAt = d, acc
		}
	}
	return bestAt
}

func toLineString(coords [][]float64) orb.LineString {
	line := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		line = append(line, orb.Point{c[0], c[1]})
	}
	return line
}

func floatProp(f *geojson.Feature, key string, def float64) float64 {
	if v, err := f.PropertyFloat64(key); err == nil {
		return v
	}
	return def
}

func stringProp(f *geojson.Feature, key, def string) string {
	if v, err := f.PropertyString(key); err == nil {
		return v
	}
	return def
}

func boolProp(f *geojson.Feature, key string) bool {
	v, _ := f.PropertyBool(key)
	return v
}

func idsProp(f *geojson.Feature, key string) []LinkID {
	raw, ok := f.Properties[key].([]interface{})
	if !ok {
		return nil
	}
	ids := make([]LinkID, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(float64); ok {
			ids = append(ids, LinkID(n))
		}
	}
	return ids
}
