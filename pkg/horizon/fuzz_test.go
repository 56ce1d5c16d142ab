package horizon

import (
	"testing"
)

// FuzzParseJSON tests the fixture parser with arbitrary input.
// Run with: go test -fuzz=FuzzParseJSON -fuzztime=30s ./pkg/horizon/
func FuzzParseJSON(f *testing.F) {
	// Seed with valid fixtures
	f.Add([]byte(`{"path":[1],"links":[{"id":1,"length_cm":1000}],"samples":[]}`))
	f.Add([]byte(`{"path":[1],"links":[{"id":1,"length_cm":1000}],"samples":[{"distance_cm":500,"type":"number_of_lanes","info":2,"link":1}]}`))
	f.Add([]byte(`{"path":[1],"links":[{"id":1,"length_cm":1000}],"samples":[{"distance_cm":500,"type":"ts_speed_limit","number":50,"validity":"start","link":1}]}`))

	// Seed with edge cases
	f.Add([]byte(`{}`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))
	f.Add([]byte(`{"path":[2],"links":[{"id":1}]}`))
	f.Add([]byte(`{"path":[1],"links":[{"id":1}],"samples":[{"type":"bogus","link":1}]}`))
	f.Add([]byte(`{"path":[1],"links":[{"id":1}],"samples":[{"type":"ts_stop","validity":"forever","link":1}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		h, err := ParseJSON(data)
		if err != nil {
			return
		}
		// A parsed horizon is valid and survives a round trip.
		if err := h.Validate(); err != nil {
			t.Fatalf("parsed horizon fails validation: %v", err)
		}
		out, err := ToJSON(h, false)
		if err != nil {
			t.Fatalf("serialize: %v", err)
		}
		back, err := ParseJSON(out)
		if err != nil {
			t.Fatalf("reparse: %v", err)
		}
		if back.Len() != h.Len() {
			t.Fatalf("round trip changed sample count: %d != %d", back.Len(), h.Len())
		}
	})
}

// FuzzImportGeoJSON tests the GeoJSON importer with arbitrary input.
func FuzzImportGeoJSON(f *testing.F) {
	f.Add([]byte(crossingGeoJSON))
	f.Add([]byte(`{"type":"FeatureCollection","features":[]}`))
	f.Add([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0]]},"properties":{"id":1,"mpp":0}}]}`))
	f.Add([]byte(`{"type":"Feature"}`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		h, err := ImportGeoJSON(data)
		if err == nil && h != nil {
			_ = h.String()
			_ = h.PathLengthCM()
		}
	})
}
