package component

import "github.com/jakecoffman/cp"

type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
	ShapePolygon
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	case ShapePolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Material mirrors the engine's density/restitution/friction triple. Mass is
// derived from density and shape area.
type Material struct {
	Density    float64
	Friction   float64
	Elasticity float64
}

var DefaultMaterial = Material{Density: 0.1, Friction: 0.5, Elasticity: 0.5}

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are filled in by the physics system.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Kind   ShapeKind
	Radius float64
	Width  float64
	Height float64
	// Verts are local polygon vertices around the body's center.
	Verts []cp.Vector

	Material Material
	Tag      uint32
	Group    uint
	Static   bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// EdgeBox is a hollow static rectangle made of four segments.
type EdgeBox struct {
	Width    float64
	Height   float64
	Border   float64
	Material Material
	Group    uint
}

var EdgeBoxComponent = NewComponent[EdgeBox]()
