package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

// PhysicsBodyComponentSpec describes one collider. Shape is "circle", "box"
// or "triangle"; triangles use width and height.
type PhysicsBodyComponentSpec struct {
	Shape     string       `yaml:"shape"`
	Radius    float64      `yaml:"radius"`
	Width     float64      `yaml:"width"`
	Height    float64      `yaml:"height"`
	Material  MaterialSpec `yaml:"material"`
	Draggable bool         `yaml:"draggable"`
	Tag       uint32       `yaml:"tag"`
	Group     uint         `yaml:"group"`
	Static    bool         `yaml:"static"`
}

type ShapeStyleComponentSpec struct {
	Fill    Color `yaml:"fill"`
	Outline Color `yaml:"outline"`
}

type EdgeBoxComponentSpec struct {
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	Border   float64      `yaml:"border"`
	Material MaterialSpec `yaml:"material"`
	Group    uint         `yaml:"group"`
}

type BackgroundComponentSpec struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Color     Color   `yaml:"color"`
	GridSpace float64 `yaml:"grid_space"`
	GridColor Color   `yaml:"grid_color"`
	GridWidth float64 `yaml:"grid_width"`
}

type DebugDrawComponentSpec struct {
	Shapes   bool `yaml:"shapes"`
	Joints   bool `yaml:"joints"`
	Contacts bool `yaml:"contacts"`
}

type LabelComponentSpec struct {
	Text      string  `yaml:"text"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Size      float64 `yaml:"size"`
	WrapWidth float64 `yaml:"wrap_width"`
	Color     Color   `yaml:"color"`
}
