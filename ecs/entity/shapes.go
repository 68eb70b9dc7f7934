package entity

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
)

// Material overrides are applied only when non-zero; otherwise the prefab's
// material stays.

func NewBall(w *ecs.World, x, y, radius float64, mat component.Material) (ecs.Entity, error) {
	e, err := BuildEntity(w, "ball.yaml")
	if err != nil {
		return 0, fmt.Errorf("ball: %w", err)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	if radius > 0 {
		body.Radius = radius
	}
	applyMaterial(body, mat)
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("ball: set transform: %w", err)
	}
	return e, nil
}

// NewBox spawns a draggable box rotated by rotation radians.
func NewBox(w *ecs.World, x, y, width, height, rotation float64, mat component.Material) (ecs.Entity, error) {
	e, err := BuildEntity(w, "box.yaml")
	if err != nil {
		return 0, fmt.Errorf("box: %w", err)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	if width > 0 && height > 0 {
		body.Width, body.Height = width, height
	}
	applyMaterial(body, mat)
	if err := SetEntityTransform(w, e, x, y, rotation); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("box: set transform: %w", err)
	}
	return e, nil
}

func NewTriangle(w *ecs.World, x, y, width, height, rotation float64, mat component.Material) (ecs.Entity, error) {
	e, err := BuildEntity(w, "triangle.yaml")
	if err != nil {
		return 0, fmt.Errorf("triangle: %w", err)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	if width > 0 && height > 0 {
		body.Width, body.Height = width, height
		body.Verts = TriangleVerts(width, height)
	}
	applyMaterial(body, mat)
	if err := SetEntityTransform(w, e, x, y, rotation); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("triangle: set transform: %w", err)
	}
	return e, nil
}

// NewWalls builds the edge box around a width x height playfield.
func NewWalls(w *ecs.World, width, height float64, mat component.Material) (ecs.Entity, error) {
	e, err := BuildEntity(w, "walls.yaml")
	if err != nil {
		return 0, fmt.Errorf("walls: %w", err)
	}
	box, _ := ecs.Get(w, e, component.EdgeBoxComponent)
	if width > 0 && height > 0 {
		box.Width, box.Height = width, height
	}
	if mat != (component.Material{}) {
		box.Material = mat
	}
	return e, nil
}

func NewBackground(w *ecs.World, width, height float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, "background.yaml")
	if err != nil {
		return 0, fmt.Errorf("background: %w", err)
	}
	bg, _ := ecs.Get(w, e, component.BackgroundComponent)
	if width > 0 && height > 0 {
		bg.Width, bg.Height = width, height
	}
	return e, nil
}

func NewInfoLabel(w *ecs.World, text string) (ecs.Entity, error) {
	e, err := BuildEntity(w, "info_label.yaml")
	if err != nil {
		return 0, fmt.Errorf("info label: %w", err)
	}
	label, _ := ecs.Get(w, e, component.LabelComponent)
	label.Text = text
	return e, nil
}

// RandomRotation returns an angle in [0, 2π).
func RandomRotation(r *rand.Rand) float64 {
	return r.Float64() * 2 * math.Pi
}

func applyMaterial(body *component.PhysicsBody, mat component.Material) {
	if mat == (component.Material{}) {
		return
	}
	if mat.Density <= 0 {
		mat.Density = component.DefaultMaterial.Density
	}
	body.Material = mat
}
