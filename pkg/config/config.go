// Package config loads, validates and saves the road view settings.
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/roadview/pkg/roadview"
)

// ErrInvalid is returned, wrapped with the failing fields, when a
// configuration does not validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the persistent road view settings.
type Config struct {
	Lanes    Lanes    `yaml:"lanes"`
	Show     Show     `yaml:"show"`
	Scale    Scale    `yaml:"scale"`
	Colors   Colors   `yaml:"colors"`
	Layout   Layout   `yaml:"layout"`
	Crossing Crossing `yaml:"crossing"`
	Debug    bool     `yaml:"debug"`
}

// Lanes sets the lane width: the road height divided by twice WidthFactor.
type Lanes struct {
	WidthFactor int `yaml:"width_factor" validate:"min=1,max=10"`
}

// Show holds the layer toggles.
type Show struct {
	Tunnels             bool `yaml:"tunnels"`
	Roundabouts         bool `yaml:"roundabouts"`
	Speed               bool `yaml:"speed"`
	Pedestrian          bool `yaml:"pedestrian"`
	PedestrianCrosswalk bool `yaml:"pedestrian_crosswalk"`
	TrafficLight        bool `yaml:"traffic_light"`
	TrafficLightSign    bool `yaml:"traffic_light_sign"`
	RightOfWay          bool `yaml:"right_of_way"`
	RightOfWayRoad      bool `yaml:"right_of_way_road"`
	Yield               bool `yaml:"yield"`
	EndOfTown           bool `yaml:"end_of_town"`
	Intersection        bool `yaml:"intersection"`
	Other               bool `yaml:"other"`
	Custom              bool `yaml:"custom"`
}

// Scale holds the zoom range, in meters.
type Scale struct {
	Auto     bool `yaml:"auto"`
	CityInM  int  `yaml:"city_in_m" validate:"min=10,max=9999"`
	CityOutM int  `yaml:"city_out_m" validate:"min=10,max=9999"`
	MinM     int  `yaml:"min_m" validate:"gt=0"`
	MaxM     int  `yaml:"max_m" validate:"gtfield=MinM"`
	StepM    int  `yaml:"step_m" validate:"gt=0"`
	InitialM int  `yaml:"initial_m" validate:"gtefield=MinM,ltefield=MaxM"`
}

// Colors holds #rrggbb colours.
type Colors struct {
	Back           string `yaml:"back" validate:"hexcolor"`
	Road           string `yaml:"road" validate:"hexcolor"`
	Lines          string `yaml:"lines" validate:"hexcolor"`
	Arrow          string `yaml:"arrow" validate:"hexcolor"`
	Scale          string `yaml:"scale" validate:"hexcolor"`
	Debug          string `yaml:"debug" validate:"hexcolor"`
	AreaRoundabout string `yaml:"area_roundabout" validate:"hexcolor"`
	AreaTunnel     string `yaml:"area_tunnel" validate:"hexcolor"`
	AreaSigns      string `yaml:"area_signs" validate:"hexcolor"`
	Complex        string `yaml:"complex" validate:"hexcolor"`
}

// Layout tunes the segment layout.
type Layout struct {
	// MergeTolerancePX is how close, in pixels, two transitions may get
	// before they collapse into a complex crossing.
	MergeTolerancePX int `yaml:"merge_tolerance_px" validate:"gte=0,lte=100"`
}

// Crossing holds the crossing width factors.
type Crossing struct {
	Same  float64 `yaml:"same" validate:"gt=0,lte=10"`
	Small float64 `yaml:"small" validate:"gt=0,lte=10"`
	Big   float64 `yaml:"big" validate:"gt=0,lte=10"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Default returns the default configuration.
func Default() Config {
	pal := roadview.DefaultPalette()
	return Config{
		Lanes: Lanes{WidthFactor: 4},
		Show: Show{
			Tunnels: true, Roundabouts: true, Speed: true,
			Pedestrian: true, PedestrianCrosswalk: true,
			TrafficLight: true, TrafficLightSign: true,
			RightOfWay: true, RightOfWayRoad: true,
			Yield: true, EndOfTown: true, Intersection: true,
			Other: true, Custom: true,
		},
		Scale: Scale{
			CityInM:  roadview.CityInScaleCM / 100,
			CityOutM: roadview.CityOutScaleCM / 100,
			MinM:     roadview.ZoomMinCM / 100,
			MaxM:     roadview.ZoomMaxCM / 100,
			StepM:    roadview.ZoomStepCM / 100,
			InitialM: roadview.ZoomDefaultCM / 100,
		},
		Colors: Colors{
			Back:           hex(pal.Back),
			Road:           hex(pal.Road),
			Lines:          hex(pal.Lines),
			Arrow:          hex(pal.Arrow),
			Scale:          hex(pal.Scale),
			Debug:          hex(pal.Debug),
			AreaRoundabout: hex(pal.Roundabout),
			AreaTunnel:     hex(pal.Tunnel),
			AreaSigns:      hex(pal.Signs),
			Complex:        hex(pal.Complex),
		},
		Layout: Layout{MergeTolerancePX: roadview.DefaultMergeTolerance},
		Crossing: Crossing{
			Same:  roadview.CrossingFactorSame,
			Small: roadview.CrossingFactorSmall,
			Big:   roadview.CrossingFactorBig,
		},
	}
}

// Path returns the default config file, ~/.roadview.yaml.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".roadview.yaml"
	}
	return filepath.Join(home, ".roadview.yaml")
}

// Load reads the configuration at path. Keys missing from the file keep
// their defaults; a missing file yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err = Parse(data)
	if err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Default(), errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	data = append([]byte("# roadview configuration\n"), data...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

// Validate checks the field ranges and colours.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		name := fe.Namespace()
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s=%v fails %s", name, fe.Value(), rule))
	}
	return errors.Wrap(ErrInvalid, strings.Join(msgs, "; "))
}

// ParseColor parses a #rgb or #rrggbb colour.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "colour %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// Palette returns the parsed colours.
func (c Config) Palette() (roadview.Palette, error) {
	var pal roadview.Palette
	for _, f := range []struct {
		dst *color.RGBA
		src string
	}{
		{&pal.Back, c.Colors.Back},
		{&pal.Road, c.Colors.Road},
		{&pal.Lines, c.Colors.Lines},
		{&pal.Arrow, c.Colors.Arrow},
		{&pal.Scale, c.Colors.Scale},
		{&pal.Debug, c.Colors.Debug},
		{&pal.Roundabout, c.Colors.AreaRoundabout},
		{&pal.Tunnel, c.Colors.AreaTunnel},
		{&pal.Signs, c.Colors.AreaSigns},
		{&pal.Complex, c.Colors.Complex},
	} {
		col, err := ParseColor(f.src)
		if err != nil {
			return roadview.DefaultPalette(), err
		}
		*f.dst = col
	}
	return pal, nil
}

// Visibility returns the layer toggles by group.
func (c Config) Visibility() roadview.Visibility {
	var v roadview.Visibility
	v[roadview.GroupTunnel] = c.Show.Tunnels
	v[roadview.GroupRoundabout] = c.Show.Roundabouts
	v[roadview.GroupPedestrian] = c.Show.Pedestrian
	v[roadview.GroupPedestrianCrosswalk] = c.Show.PedestrianCrosswalk
	v[roadview.GroupTrafficLight] = c.Show.TrafficLight
	v[roadview.GroupTrafficLightSign] = c.Show.TrafficLightSign
	v[roadview.GroupRightOfWay] = c.Show.RightOfWay
	v[roadview.GroupRightOfWayRoad] = c.Show.RightOfWayRoad
	v[roadview.GroupYield] = c.Show.Yield
	v[roadview.GroupEndOfTown] = c.Show.EndOfTown
	v[roadview.GroupIntersection] = c.Show.Intersection
	v[roadview.GroupOther] = c.Show.Other
	v[roadview.GroupCustom] = c.Show.Custom
	return v
}

// PainterOptions returns the paint settings.
func (c Config) PainterOptions() (roadview.PainterOptions, error) {
	pal, err := c.Palette()
	if err != nil {
		return roadview.DefaultPainterOptions(), err
	}
	return roadview.PainterOptions{
		Palette:        pal,
		WidthFactor:    c.Lanes.WidthFactor,
		MergeTolerance: c.Layout.MergeTolerancePX,
		Visibility:     c.Visibility(),
		ShowSpeed:      c.Show.Speed,
		Debug:          c.Debug,
	}, nil
}

// Zoom returns the initial zoom state.
func (c Config) Zoom() roadview.Zoom {
	s := c.Scale
	z := roadview.Zoom{
		LengthCM:  s.InitialM * 100,
		MinCM:     s.MinM * 100,
		MaxCM:     s.MaxM * 100,
		StepCM:    s.StepM * 100,
		Auto:      s.Auto,
		CityInCM:  s.CityInM * 100,
		CityOutCM: s.CityOutM * 100,
	}
	if z.Auto {
		z.LengthCM = z.CityOutCM
	}
	return z
}

// AggregateOptions returns the crossing factors.
func (c Config) AggregateOptions() roadview.AggregateOptions {
	return roadview.AggregateOptions{
		CrossingSame:  c.Crossing.Same,
		CrossingSmall: c.Crossing.Small,
		CrossingBig:   c.Crossing.Big,
	}
}
