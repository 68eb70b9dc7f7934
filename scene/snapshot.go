package scene

import (
	"log"
	"sort"
	"sync"

	"github.com/milk9111/physicstest/demos"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
	"github.com/milk9111/physicstest/prefabs"
	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// Snapshot describes the current layout as a demo definition. Every dynamic
// body becomes an explicit spawn, so scripted shapes are frozen in place and
// the script is dropped.
func Snapshot(w *ecs.World, base demos.Spec, gravityX, gravityY float64) demos.Spec {
	snap := demos.Spec{
		Name:    base.Name + "_snapshot",
		Title:   base.DisplayTitle() + " (snapshot)",
		Info:    base.Info,
		Order:   base.Order,
		Seed:    base.Seed,
		Gravity: &demos.Vec{X: gravityX, Y: gravityY},
		Walls:   base.Walls,
	}

	type entry struct {
		e  ecs.Entity
		sp demos.SpawnSpec
	}
	var entries []entry
	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if body.Static {
			return
		}
		rotation := t.Rotation
		sp := demos.SpawnSpec{
			X:        t.X,
			Y:        t.Y,
			Rotation: &rotation,
			Material: prefabs.MaterialSpec{
				Density:    body.Material.Density,
				Friction:   body.Material.Friction,
				Elasticity: body.Material.Elasticity,
			},
		}
		switch body.Kind {
		case component.ShapeCircle:
			sp.Shape = demos.ShapeBall
			sp.Radius = body.Radius
			sp.Rotation = nil
		case component.ShapePolygon:
			sp.Shape = demos.ShapeTriangle
			sp.Width, sp.Height = body.Width, body.Height
		default:
			sp.Shape = demos.ShapeBox
			sp.Width, sp.Height = body.Width, body.Height
		}
		entries = append(entries, entry{e: e, sp: sp})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].e < entries[j].e })
	for _, en := range entries {
		snap.Spawns = append(snap.Spawns, en.sp)
	}
	return snap
}

// CopySnapshot puts the current layout on the clipboard as demo YAML.
func (s *DemoScene) CopySnapshot() {
	gravity := s.physics.Space().Gravity()
	data, err := Snapshot(s.world, s.spec, gravity.X, gravity.Y).Marshal()
	if err != nil {
		log.Printf("demo: snapshot: %v", err)
		return
	}
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		log.Printf("demo: clipboard unavailable: %v", clipboardErr)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Printf("demo: copied %s snapshot (%d bytes)", s.spec.Name, len(data))
}
