// Package trajectory models vessel tracks as ordered position sequences and
// loads named scenarios from YAML files.
package trajectory

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/balticwatch/cablewatch/internal/geometry"
)

// DefaultName identifies the built-in scenario.
const DefaultName = "rostock-approach"

// Trajectory is an ordered run of vessel positions. N points decompose into
// N-1 consecutive legs.
type Trajectory struct {
	Name   string
	Points []geometry.Point
}

// Segments returns the consecutive legs of the trajectory in order. Leg i
// runs from point i to point i+1; reports number the legs 1-based.
func (t Trajectory) Segments() []geometry.Segment {
	if len(t.Points) < 2 {
		return nil
	}
	segs := make([]geometry.Segment, 0, len(t.Points)-1)
	for i := 0; i < len(t.Points)-1; i++ {
		segs = append(segs, geometry.Segment{A: t.Points[i], B: t.Points[i+1]})
	}
	return segs
}

// Default returns the built-in scenario: a three-point westbound track along
// the approach to Rostock.
func Default() Trajectory {
	return Trajectory{
		Name: DefaultName,
		Points: []geometry.Point{
			{Lon: 12.0771658, Lat: 54.3374597},
			{Lon: 11.9667175, Lat: 54.3310199},
			{Lon: 11.8415427, Lat: 54.3353132},
		},
	}
}

// scenarioFile is the on-disk YAML shape: a name and a list of [lon, lat]
// pairs.
type scenarioFile struct {
	Name   string      `yaml:"name"`
	Points [][]float64 `yaml:"points"`
}

// LoadScenario reads a trajectory scenario from a YAML file.
func LoadScenario(path string) (Trajectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trajectory{}, eris.Wrapf(err, "trajectory: read scenario %s", path)
	}

	var sf scenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return Trajectory{}, eris.Wrapf(err, "trajectory: parse scenario %s", path)
	}

	if sf.Name == "" {
		return Trajectory{}, eris.Errorf("trajectory: scenario %s has no name", path)
	}
	if len(sf.Points) < 2 {
		return Trajectory{}, eris.Errorf("trajectory: scenario %s needs at least 2 points, got %d", path, len(sf.Points))
	}

	t := Trajectory{Name: sf.Name, Points: make([]geometry.Point, 0, len(sf.Points))}
	for i, pair := range sf.Points {
		if len(pair) < 2 {
			return Trajectory{}, eris.Errorf("trajectory: scenario %s point %d is not a [lon, lat] pair", path, i)
		}
		t.Points = append(t.Points, geometry.Point{Lon: pair[0], Lat: pair[1]})
	}
	return t, nil
}
