package demos

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/physicstest/prefabs"
	"gopkg.in/yaml.v3"
)

// DefaultInfo is shown when a demo has no info text.
const DefaultInfo = "demo_info"

// DefaultDemo is started when no -demo flag is given.
const DefaultDemo = "shapes.yaml"

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Spec is one demo definition.
type Spec struct {
	// File is the name the spec was loaded from.
	File string `yaml:"-"`

	Name    string               `yaml:"name"`
	Title   string               `yaml:"title,omitempty"`
	Info    string               `yaml:"info,omitempty"`
	Order   int                  `yaml:"order,omitempty"`
	Seed    int64                `yaml:"seed,omitempty"`
	Gravity *Vec                 `yaml:"gravity,omitempty"`
	Walls   prefabs.MaterialSpec `yaml:"walls,omitempty"`
	Spawns  []SpawnSpec          `yaml:"spawns,omitempty"`
	Script  string               `yaml:"script,omitempty"`
}

// SpawnSpec places one shape, or Count shapes stepping by (DX, DY).
type SpawnSpec struct {
	Shape  string  `yaml:"shape"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	// Rotation in radians. Nil picks a random angle for boxes and triangles.
	Rotation *float64             `yaml:"rotation,omitempty"`
	Material prefabs.MaterialSpec `yaml:"material,omitempty"`
	Count    int                  `yaml:"count,omitempty"`
	DX       float64              `yaml:"dx,omitempty"`
	DY       float64              `yaml:"dy,omitempty"`
}

// LoadSpec loads demos/<name>. The .yaml extension is optional.
func LoadSpec(name string) (Spec, error) {
	if filepath.Ext(name) == "" {
		name += ".yaml"
	}
	data, err := Load(name)
	if err != nil {
		return Spec{}, fmt.Errorf("demos: load %s: %w", name, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return Spec{}, fmt.Errorf("demos: %s: %w", name, err)
	}
	spec.File = cleanDemoPath(name)
	return spec, nil
}

func Parse(data []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func (s Spec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for i, sp := range s.Spawns {
		if err := sp.Validate(); err != nil {
			return fmt.Errorf("spawn %d: %w", i, err)
		}
	}
	return nil
}

func (sp SpawnSpec) Validate() error {
	switch sp.Shape {
	case ShapeBall:
		if sp.Radius < 0 {
			return fmt.Errorf("ball radius must not be negative")
		}
	case ShapeBox, ShapeTriangle:
		if sp.Width < 0 || sp.Height < 0 {
			return fmt.Errorf("%s size must not be negative", sp.Shape)
		}
	default:
		return fmt.Errorf("unknown shape %q", sp.Shape)
	}
	if sp.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	return nil
}

const (
	ShapeBall     = "ball"
	ShapeBox      = "box"
	ShapeTriangle = "triangle"
)

// InfoText returns the label text for the demo.
func (s Spec) InfoText() string {
	if s.Info == "" {
		return DefaultInfo
	}
	return s.Info
}

func (s Spec) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// Expand flattens counted spawns into single spawns.
func (s Spec) Expand() []SpawnSpec {
	out := make([]SpawnSpec, 0, len(s.Spawns))
	for _, sp := range s.Spawns {
		n := sp.Count
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			one := sp
			one.Count = 0
			one.DX, one.DY = 0, 0
			one.X = sp.X + float64(i)*sp.DX
			one.Y = sp.Y + float64(i)*sp.DY
			out = append(out, one)
		}
	}
	return out
}

// List loads every embedded demo ordered by Order, then name.
func List() ([]Spec, error) {
	names, err := Names()
	if err != nil {
		return nil, fmt.Errorf("demos: list: %w", err)
	}
	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		spec, err := LoadSpec(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	sort.SliceStable(specs, func(i, j int) bool {
		if specs[i].Order != specs[j].Order {
			return specs[i].Order < specs[j].Order
		}
		return specs[i].Name < specs[j].Name
	})
	return specs, nil
}
