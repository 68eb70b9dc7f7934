package entity

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physicstest/common"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
	"github.com/milk9111/physicstest/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"wall_tag":     addWallTag,
	"transform":    addTransform,
	"physics_body": addPhysicsBody,
	"shape_style":  addShapeStyle,
	"edge_box":     addEdgeBox,
	"background":   addBackground,
	"debug_draw":   addDebugDraw,
	"label":        addLabel,
}

// physics_body reads the transform, so transform must come first.
var componentBuildOrder = []string{
	"wall_tag",
	"transform",
	"physics_body",
	"shape_style",
	"edge_box",
	"background",
	"debug_draw",
	"label",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := w.CreateEntity()
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		w.DestroyEntity(e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return ecs.Add(w, e, component.TransformComponent, component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1, Rotation: rotation})
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return nil
}

func addWallTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.WallTagComponent, component.WallTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	}
	if t.ScaleX == 0 {
		t.ScaleX = 1
	}
	if t.ScaleY == 0 {
		t.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent, t)
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	body := component.PhysicsBody{
		Radius:   spec.Radius,
		Width:    spec.Width,
		Height:   spec.Height,
		Material: materialFromSpec(spec.Material),
		Tag:      spec.Tag,
		Group:    spec.Group,
		Static:   spec.Static,
	}
	if spec.Draggable {
		body.Tag |= common.DragBodiesTag
	}

	switch spec.Shape {
	case "circle":
		if spec.Radius <= 0 {
			return fmt.Errorf("circle radius must be positive, got %v", spec.Radius)
		}
		body.Kind = component.ShapeCircle
	case "box", "":
		if spec.Width <= 0 || spec.Height <= 0 {
			return fmt.Errorf("box size must be positive, got %vx%v", spec.Width, spec.Height)
		}
		body.Kind = component.ShapeBox
	case "triangle":
		if spec.Width <= 0 || spec.Height <= 0 {
			return fmt.Errorf("triangle size must be positive, got %vx%v", spec.Width, spec.Height)
		}
		body.Kind = component.ShapePolygon
		body.Verts = TriangleVerts(spec.Width, spec.Height)
	default:
		return fmt.Errorf("unknown shape %q", spec.Shape)
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent, body)
}

func addShapeStyle(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ShapeStyleComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode shape style spec: %w", err)
	}
	return ecs.Add(w, e, component.ShapeStyleComponent, component.ShapeStyle{
		Fill:    spec.Fill.RGBA,
		Outline: spec.Outline.RGBA,
	})
}

func addEdgeBox(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.EdgeBoxComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode edge box spec: %w", err)
	}
	box := component.EdgeBox{
		Width:    spec.Width,
		Height:   spec.Height,
		Border:   spec.Border,
		Material: materialFromSpec(spec.Material),
		Group:    spec.Group,
	}
	if box.Width == 0 {
		box.Width = common.BaseWidth
	}
	if box.Height == 0 {
		box.Height = common.BaseHeight
	}
	if box.Border == 0 {
		box.Border = common.WallBorder
	}
	return ecs.Add(w, e, component.EdgeBoxComponent, box)
}

func addBackground(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BackgroundComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode background spec: %w", err)
	}
	bg := component.Background{
		Width:     spec.Width,
		Height:    spec.Height,
		Color:     spec.Color.RGBA,
		GridSpace: spec.GridSpace,
		GridColor: spec.GridColor.RGBA,
		GridWidth: spec.GridWidth,
	}
	if bg.Width == 0 {
		bg.Width = common.BaseWidth
	}
	if bg.Height == 0 {
		bg.Height = common.BaseHeight
	}
	return ecs.Add(w, e, component.BackgroundComponent, bg)
}

func addDebugDraw(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DebugDrawComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode debug draw spec: %w", err)
	}
	var mask component.DebugDrawMask
	if spec.Shapes {
		mask |= component.DebugDrawShape
	}
	if spec.Joints {
		mask |= component.DebugDrawJoint
	}
	if spec.Contacts {
		mask |= component.DebugDrawContact
	}
	return ecs.Add(w, e, component.DebugDrawComponent, component.DebugDraw{Mask: mask})
}

func addLabel(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.LabelComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode label spec: %w", err)
	}
	return ecs.Add(w, e, component.LabelComponent, component.Label{
		Text:      spec.Text,
		X:         spec.X,
		Y:         spec.Y,
		Size:      spec.Size,
		WrapWidth: spec.WrapWidth,
		Color:     spec.Color.RGBA,
	})
}

// materialFromSpec falls back to the default material when nothing is set,
// and to the default density when only density is missing.
func materialFromSpec(spec prefabs.MaterialSpec) component.Material {
	if spec == (prefabs.MaterialSpec{}) {
		return component.DefaultMaterial
	}
	mat := component.Material{
		Density:    spec.Density,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
	}
	if mat.Density <= 0 {
		mat.Density = component.DefaultMaterial.Density
	}
	return mat
}

// TriangleVerts returns an upward-pointing isosceles triangle centred on the
// body origin. y grows downward.
func TriangleVerts(width, height float64) []cp.Vector {
	return []cp.Vector{
		{X: 0, Y: -height / 2},
		{X: width / 2, Y: height / 2},
		{X: -width / 2, Y: height / 2},
	}
}
