package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
)

// DragSystem maps pointer ids to mouse entities. Each mouse entity owns one
// kinematic body pinned to the grabbed shape; see PhysicsSystem.Grab.
type DragSystem struct {
	physics *PhysicsSystem
	mice    map[int]ecs.Entity
}

func NewDragSystem(physics *PhysicsSystem) *DragSystem {
	return &DragSystem{physics: physics, mice: make(map[int]ecs.Entity)}
}

func (d *DragSystem) Update(w *ecs.World) {
	if d == nil || w == nil {
		return
	}
	e, ok := w.First(component.PointerInputComponent.Kind())
	if !ok {
		return
	}
	input, ok := ecs.Get(w, e, component.PointerInputComponent)
	if !ok {
		return
	}
	for _, evt := range input.Events {
		switch evt.Phase {
		case component.PointerBegan:
			d.TouchBegan(w, evt.ID, evt.X, evt.Y)
		case component.PointerMoved:
			d.TouchMoved(w, evt.ID, evt.X, evt.Y)
		case component.PointerEnded:
			d.TouchEnded(w, evt.ID)
		}
	}
}

// TouchBegan grabs the draggable body under (x, y). It reports false when the
// touch is rejected; rejected touches get no moved or ended handling.
func (d *DragSystem) TouchBegan(w *ecs.World, id int, x, y float64) bool {
	if _, held := d.mice[id]; held {
		d.TouchEnded(w, id)
	}
	mouse := w.CreateEntity()
	if !d.physics.Grab(w, mouse, id, cp.Vector{X: x, Y: y}) {
		w.DestroyEntity(mouse)
		return false
	}
	d.mice[id] = mouse
	return true
}

func (d *DragSystem) TouchMoved(w *ecs.World, id int, x, y float64) {
	mouse, ok := d.mice[id]
	if !ok {
		return
	}
	if !w.IsAlive(mouse) {
		delete(d.mice, id)
		return
	}
	d.physics.MoveMouse(w, mouse, cp.Vector{X: x, Y: y})
}

func (d *DragSystem) TouchEnded(w *ecs.World, id int) {
	mouse, ok := d.mice[id]
	if !ok {
		return
	}
	delete(d.mice, id)
	if w.IsAlive(mouse) {
		d.physics.Release(w, mouse)
	}
}

// ReleaseAll ends every active drag.
func (d *DragSystem) ReleaseAll(w *ecs.World) {
	for id := range d.mice {
		d.TouchEnded(w, id)
	}
}

// Active returns the number of pointers currently holding a body.
func (d *DragSystem) Active() int {
	return len(d.mice)
}

// Mouse returns the mouse entity for a pointer id.
func (d *DragSystem) Mouse(id int) (ecs.Entity, bool) {
	e, ok := d.mice[id]
	return e, ok
}
