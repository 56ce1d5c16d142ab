package horizon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownAttrType is returned for an unrecognised attribute name.
	ErrUnknownAttrType = errors.New("unknown attribute type")
	// ErrNoGeometry is returned when a GeoJSON document has no link features.
	ErrNoGeometry = errors.New("no link geometry")
)

// jsonHorizon is the JSON representation of a horizon.
type jsonHorizon struct {
	Name    string       `json:"name,omitempty"`
	Path    []LinkID     `json:"path"`
	Links   []jsonLink   `json:"links"`
	Samples []jsonSample `json:"samples"`
}

type jsonLink struct {
	ID          LinkID         `json:"id"`
	InternalID  string         `json:"internal_id,omitempty"`
	LengthCM    int            `json:"length_cm"`
	Children    []LinkID       `json:"children,omitempty"`
	TurnAngles  map[LinkID]int `json:"turn_angles,omitempty"`
	Probability *float64       `json:"probability,omitempty"` // 1 when absent
	InCity      bool           `json:"in_city,omitempty"`
	LeftHand    bool           `json:"left_hand,omitempty"`
}

type jsonSample struct {
	DistanceCM  int      `json:"distance_cm"`
	Type        AttrType `json:"type"`
	Info        uint32   `json:"info,omitempty"`
	Number      *int     `json:"number,omitempty"`
	Validity    string   `json:"validity,omitempty"` // "start" or "duration"
	Link        LinkID   `json:"link"`
	LengthCM    int      `json:"length_cm,omitempty"`
	Probability *float64 `json:"probability,omitempty"` // 1 when absent
	IsStart     bool     `json:"is_start,omitempty"`
}

func parseValidity(s string) (Validity, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return ValidityNone, nil
	case "start":
		return ValidityStart, nil
	case "duration":
		return ValidityDuration, nil
	}
	return ValidityNone, errors.Errorf("unknown validity %q", s)
}

func (v Validity) String() string {
	switch v {
	case ValidityStart:
		return "start"
	case ValidityDuration:
		return "duration"
	}
	return ""
}

func probOrOne(p *float64) float64 {
	if p == nil {
		return 1
	}
	return *p
}

// ParseJSON parses a horizon from JSON.
func ParseJSON(data []byte) (*Horizon, error) {
	var j jsonHorizon
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrap(err, "decode horizon")
	}

	h := New()
	h.Name = j.Name
	for _, jl := range j.Links {
		h.AddLink(Link{
			ID:              jl.ID,
			InternalID:      jl.InternalID,
			LengthCM:        jl.LengthCM,
			Children:        jl.Children,
			TurnAngles:      jl.TurnAngles,
			Probability:     probOrOne(jl.Probability),
			InCity:          jl.InCity,
			LeftHandTraffic: jl.LeftHand,
		})
	}
	for i, js := range j.Samples {
		info := js.Info
		if js.Number != nil || js.Validity != "" {
			v, err := parseValidity(js.Validity)
			if err != nil {
				return nil, errors.Wrapf(err, "sample %d", i)
			}
			n := int(info & 0xFFFF)
			if js.Number != nil {
				n = *js.Number
			}
			info = SignInfo(n, v)
		}
		h.AddSample(Sample{
			DistanceCM:  js.DistanceCM,
			Type:        js.Type,
			Info:        info,
			LinkID:      js.Link,
			LengthCM:    js.LengthCM,
			Probability: probOrOne(js.Probability),
			IsStart:     js.IsStart,
		})
	}
	h.SetPath(j.Path...)

	if err := h.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid horizon")
	}
	return h, nil
}

// ToJSON converts a horizon to JSON.
func ToJSON(h *Horizon, pretty bool) ([]byte, error) {
	j := jsonHorizon{
		Name: h.Name,
		Path: h.Path,
	}

	ids := make([]LinkID, 0, len(h.Links))
	for id := range h.Links {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for _, id := range ids {
		l := h.Links[id]
		jl := jsonLink{
			ID:         l.ID,
			InternalID: l.InternalID,
			LengthCM:   l.LengthCM,
			Children:   l.Children,
			TurnAngles: l.TurnAngles,
			InCity:     l.InCity,
			LeftHand:   l.LeftHandTraffic,
		}
		if l.Probability != 1 {
			p := l.Probability
			jl.Probability = &p
		}
		j.Links = append(j.Links, jl)
	}

	h.sort()
	for _, s := range h.Samples {
		js := jsonSample{
			DistanceCM: s.DistanceCM,
			Type:       s.Type,
			Info:       s.Info,
			Link:       s.LinkID,
			LengthCM:   s.LengthCM,
			IsStart:    s.IsStart,
		}
		if s.Probability != 1 {
			p := s.Probability
			js.Probability = &p
		}
		j.Samples = append(j.Samples, js)
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(j, "", "  ")
	} else {
		data, err = json.Marshal(j)
	}
	return data, errors.Wrap(err, "encode horizon")
}

// ReadFile loads a horizon from a JSON fixture or, for .geojson files,
// imports it from link geometry.
func ReadFile(path string) (*Horizon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var h *Horizon
	if strings.EqualFold(filepath.Ext(path), ".geojson") {
		h, err = ImportGeoJSON(data)
	} else {
		h, err = ParseJSON(data)
	}
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if h.Name == "" {
		h.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return h, nil
}

// WriteFile writes a horizon as an indented JSON fixture.
func WriteFile(path string, h *Horizon) error {
	data, err := ToJSON(h, true)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}
