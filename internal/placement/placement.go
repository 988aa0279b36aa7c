// Package placement holds the table of models placed in the scene.
package placement

import (
	"errors"
	"fmt"
	gomath "math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/spacescene/pkg/math"
)

// Spec places one model in the scene. Rotation holds Euler XYZ angles in
// radians exactly as authored; values outside (-2π, 2π) are legal and are
// never normalized.
type Spec struct {
	ModelID  string    `yaml:"model_id"`
	Scale    math.Vec3 `yaml:"scale"`
	Position math.Vec3 `yaml:"position"`
	Rotation math.Vec3 `yaml:"rotation"`
	Animated bool      `yaml:"animation"`
}

// UnusualRotation reports whether any angle lies outside (-2π, 2π). Such
// placements still load; callers may warn about them.
func (s Spec) UnusualRotation() bool {
	for _, a := range s.Rotation.Array() {
		if gomath.Abs(float64(a)) >= 2*gomath.Pi {
			return true
		}
	}
	return false
}

const pi = float32(gomath.Pi)

var (
	skidScale    = math.Vec3{X: 0.03, Y: 0.03, Z: 0.04}
	skidRotation = math.Vec3{Y: -269.3}
)

// Default returns the built-in scene layout in load order. The terrain is
// last.
func Default() []Spec {
	return []Spec{
		{ModelID: "curiosity_rover", Scale: uniform(2.5), Position: math.Vec3{X: -2, Y: -4, Z: -25}, Animated: true},
		{ModelID: "astronaut", Scale: uniform(2), Position: math.Vec3{X: -12, Y: -4.5, Z: 2}, Rotation: math.Vec3{Y: -250.8}, Animated: true},
		{ModelID: "perseverance_mars_rover", Scale: uniform(2), Position: math.Vec3{X: -18, Y: -3, Z: -12}},
		{ModelID: "mariner_4_spacecraft", Scale: uniform(1), Position: math.Vec3{X: 8, Y: 18, Z: -40}, Rotation: math.Vec3{Y: pi}},
		{ModelID: "space_shuttle", Scale: uniform(0.9), Position: math.Vec3{X: -50, Y: -1, Z: -120}, Rotation: math.Vec3{Y: -200}},
		{ModelID: "robot_from_the_series_love_death_and_robots", Scale: uniform(0.3), Position: math.Vec3{X: 8, Y: -2, Z: 5}, Rotation: math.Vec3{Y: 10.2}},
		{ModelID: "planet", Scale: uniform(1), Position: math.Vec3{X: -5, Y: 18, Z: -50}, Rotation: math.Vec3{Y: pi}},
		{ModelID: "solar_skid", Scale: skidScale, Position: math.Vec3{X: 13, Y: -2.3, Z: -11}, Rotation: skidRotation},
		{ModelID: "solar_skid", Scale: skidScale, Position: math.Vec3{X: 12, Y: -2.3, Z: -19}, Rotation: skidRotation},
		{ModelID: "solar_skid", Scale: skidScale, Position: math.Vec3{X: 11, Y: -2.3, Z: -28}, Rotation: skidRotation},
		{ModelID: "solar_skid", Scale: skidScale, Position: math.Vec3{X: 10, Y: -2.3, Z: -37}, Rotation: skidRotation},
		{ModelID: "sci_fi_enclosure", Scale: uniform(1.6), Position: math.Vec3{X: 40, Y: -2.3, Z: -47}},
		{ModelID: "mars_surface_terrain_model", Scale: uniform(50), Position: math.Vec3{X: 270, Y: 85, Z: -500}, Rotation: math.Vec3{X: -0.04, Y: pi}},
	}
}

func uniform(s float32) math.Vec3 {
	return math.Vec3{X: s, Y: s, Z: s}
}

type file struct {
	Models []Spec `yaml:"models"`
}

// LoadFile reads a layout from a YAML file of the form
//
//	models:
//	  - model_id: planet
//	    scale: {x: 1, y: 1, z: 1}
//	    position: {x: -5, y: 18, z: -50}
//	    rotation: {x: 0, y: 3.14159, z: 0}
//	    animation: false
//
// Omitted scales default to 1.
func LoadFile(path string) ([]Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open placements: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var out file
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse placements %s: %w", path, err)
	}
	for i := range out.Models {
		if out.Models[i].Scale == (math.Vec3{}) {
			out.Models[i].Scale = uniform(1)
		}
	}
	return out.Models, nil
}

// SaveFile writes specs in the format LoadFile reads.
func SaveFile(path string, specs []Spec) error {
	data, err := yaml.Marshal(file{Models: specs})
	if err != nil {
		return fmt.Errorf("failed to marshal placements: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write placements: %w", err)
	}
	return nil
}

// Validate reports entries that break the layout invariants: an empty model
// id or a zero scale component. The table is still usable; invalid entries
// fail at load time.
func Validate(specs []Spec) error {
	var errs []error
	for i, s := range specs {
		if s.ModelID == "" {
			errs = append(errs, fmt.Errorf("entry %d: empty model id", i))
		}
		if s.Scale.X == 0 || s.Scale.Y == 0 || s.Scale.Z == 0 {
			errs = append(errs, fmt.Errorf("entry %d (%s): zero scale component %v", i, s.ModelID, s.Scale))
		}
	}
	return errors.Join(errs...)
}
