package system

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physicstest/common"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeWall
)

type PhysicsSystem struct {
	space *cp.Space
	dt    float64

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	mice     map[ecs.Entity]*cp.Body
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

func NewPhysicsSystem() *PhysicsSystem {
	ps := &PhysicsSystem{dt: 1.0 / common.TPS}
	ps.reset()
	return ps
}

func (ps *PhysicsSystem) reset() {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	ps.space = space
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.shapes = make(map[*cp.Shape]ecs.Entity)
	ps.mice = make(map[ecs.Entity]*cp.Body)
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) SetGravity(x, y float64) {
	if ps == nil || ps.space == nil {
		return
	}
	ps.space.SetGravity(cp.Vector{X: x, Y: y})
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncEntities(w)
	ps.space.Step(ps.dt)
	ps.syncTransforms(w)
}

// Sync creates space objects for new entities and drops objects whose entity
// is gone, without stepping.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncEntities(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.EdgeBoxComponent.Kind()) {
		if _, exists := ps.entities[e]; exists {
			continue
		}
		box, _ := ecs.Get(w, e, component.EdgeBoxComponent)
		if info := ps.createEdgeBox(e, box); info != nil {
			ps.entities[e] = info
		}
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info, exists := ps.entities[e]; exists {
			if bodyComp.Body == nil {
				bodyComp.Body = info.body
				bodyComp.Shape = info.shapes[0]
			}
			return
		}
		info := ps.createBodyInfo(e, transform, bodyComp)
		if info == nil {
			return
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
	})
}

func (ps *PhysicsSystem) createEdgeBox(e ecs.Entity, box *component.EdgeBox) *bodyInfo {
	if box.Width <= 0 || box.Height <= 0 {
		return nil
	}
	w, h := box.Width, box.Height
	radius := box.Border / 2
	segments := [][2]cp.Vector{
		{{X: 0, Y: 0}, {X: w, Y: 0}},
		{{X: w, Y: 0}, {X: w, Y: h}},
		{{X: w, Y: h}, {X: 0, Y: h}},
		{{X: 0, Y: h}, {X: 0, Y: 0}},
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg[0], seg[1], radius)
		shape.SetFriction(box.Material.Friction)
		shape.SetElasticity(box.Material.Elasticity)
		shape.SetCollisionType(collisionTypeWall)
		shape.SetFilter(cp.NewShapeFilter(box.Group, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
		ps.space.AddShape(shape)
		ps.shapes[shape] = e
		info.shapes = append(info.shapes, shape)
	}
	return info
}

func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	mat := bodyComp.Material
	if mat.Density <= 0 {
		mat.Density = component.DefaultMaterial.Density
	}
	center := cp.Vector{X: transform.X, Y: transform.Y}

	if bodyComp.Static {
		var shape *cp.Shape
		switch bodyComp.Kind {
		case component.ShapeCircle:
			shape = cp.NewCircle(ps.space.StaticBody, bodyComp.Radius, center)
		case component.ShapePolygon:
			verts := make([]cp.Vector, len(bodyComp.Verts))
			for i, v := range bodyComp.Verts {
				verts[i] = v.Add(center)
			}
			shape = cp.NewPolyShape(ps.space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
		default:
			bb := cp.NewBBForExtents(center, bodyComp.Width/2, bodyComp.Height/2)
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		ps.configureShape(e, shape, bodyComp, mat)
		return &bodyInfo{static: true, body: ps.space.StaticBody, shapes: []*cp.Shape{shape}}
	}

	var mass, moment float64
	switch bodyComp.Kind {
	case component.ShapeCircle:
		if bodyComp.Radius <= 0 {
			return nil
		}
		mass = mat.Density * cp.AreaForCircle(0, bodyComp.Radius)
		moment = cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{})
	case component.ShapePolygon:
		if len(bodyComp.Verts) < 3 {
			return nil
		}
		mass = mat.Density * math.Abs(cp.AreaForPoly(len(bodyComp.Verts), bodyComp.Verts, 0))
		moment = cp.MomentForPoly(mass, len(bodyComp.Verts), bodyComp.Verts, cp.Vector{}, 0)
	default:
		if bodyComp.Width <= 0 || bodyComp.Height <= 0 {
			return nil
		}
		mass = mat.Density * bodyComp.Width * bodyComp.Height
		moment = cp.MomentForBox(mass, bodyComp.Width, bodyComp.Height)
	}
	if mass <= 0 {
		mass = 1
	}
	if moment <= 0 || math.IsNaN(moment) {
		moment = cp.MomentForBox(mass, 1, 1)
	}

	body := cp.NewBody(mass, math.Abs(moment))
	body.SetPosition(center)
	body.SetAngle(transform.Rotation)
	body.UserData = e

	var shape *cp.Shape
	switch bodyComp.Kind {
	case component.ShapeCircle:
		shape = cp.NewCircle(body, bodyComp.Radius, cp.Vector{})
	case component.ShapePolygon:
		shape = cp.NewPolyShape(body, len(bodyComp.Verts), bodyComp.Verts, cp.NewTransformIdentity(), 0)
	default:
		shape = cp.NewBox(body, bodyComp.Width, bodyComp.Height, 0)
	}

	ps.space.AddBody(body)
	ps.configureShape(e, shape, bodyComp, mat)
	return &bodyInfo{body: body, shapes: []*cp.Shape{shape}}
}

func (ps *PhysicsSystem) configureShape(e ecs.Entity, shape *cp.Shape, bodyComp *component.PhysicsBody, mat component.Material) {
	shape.SetFriction(mat.Friction)
	shape.SetElasticity(mat.Elasticity)
	shape.SetCollisionType(collisionTypeSolid)
	if bodyComp.Group != 0 {
		shape.SetFilter(cp.NewShapeFilter(bodyComp.Group, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
	}
	ps.space.AddShape(shape)
	ps.shapes[shape] = e
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Static || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e := range ps.mice {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.MouseJointComponent) {
			ps.dropMouse(e, nil)
		}
	}

	for e, info := range ps.entities {
		if w.IsAlive(e) && (ecs.Has(w, e, component.PhysicsBodyComponent) || ecs.Has(w, e, component.EdgeBoxComponent)) {
			continue
		}
		// Mice holding this body go first so no joint outlives its body.
		ps.releaseMiceOn(w, e)
		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.shapes, shape)
		}
		if !info.static && info.body != nil {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

// ShapesAt returns the entities whose shapes contain p, most recently created
// first. Sensor shapes are skipped.
func (ps *PhysicsSystem) ShapesAt(p cp.Vector) []ecs.Entity {
	if ps == nil || ps.space == nil {
		return nil
	}
	seen := make(map[ecs.Entity]struct{})
	var hits []ecs.Entity
	ps.space.BBQuery(cp.NewBBForCircle(p, 0), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if shape.Sensor() {
			return
		}
		if shape.PointQuery(p).Distance > 0 {
			return
		}
		e, ok := ps.shapes[shape]
		if !ok {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		hits = append(hits, e)
	}, nil)
	sort.Slice(hits, func(i, j int) bool { return hits[i] > hits[j] })
	return hits
}

// Grab pins the first draggable body under p to a new kinematic mouse body
// owned by mouse. It reports false when nothing draggable is under p.
func (ps *PhysicsSystem) Grab(w *ecs.World, mouse ecs.Entity, pointerID int, p cp.Vector) bool {
	if ps == nil || w == nil || !w.IsAlive(mouse) {
		return false
	}
	ps.syncEntities(w)

	var target ecs.Entity
	var targetBody *cp.Body
	for _, e := range ps.ShapesAt(p) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil || bodyComp.Static {
			continue
		}
		if bodyComp.Tag&common.DragBodiesTag == 0 {
			continue
		}
		target = e
		targetBody = bodyComp.Body
		break
	}
	if targetBody == nil {
		return false
	}

	mouseBody := cp.NewKinematicBody()
	mouseBody.SetPosition(p)
	mouseBody.UserData = mouse
	ps.space.AddBody(mouseBody)

	maxForce := common.MouseForceScale * targetBody.Mass()
	joint := cp.NewPivotJoint(mouseBody, targetBody, p)
	joint.SetMaxForce(maxForce)
	ps.space.AddConstraint(joint)

	ps.mice[mouse] = mouseBody
	err := ecs.Add(w, mouse, component.MouseJointComponent, component.MouseJoint{
		PointerID: pointerID,
		Body:      mouseBody,
		Joint:     joint,
		Target:    uint64(target),
		MaxForce:  maxForce,
	})
	if err != nil {
		panic("physics system: add mouse joint: " + err.Error())
	}
	if err := ecs.Add(w, mouse, component.TransformComponent, component.Transform{X: p.X, Y: p.Y, ScaleX: 1, ScaleY: 1}); err != nil {
		panic("physics system: add mouse transform: " + err.Error())
	}
	return true
}

// MoveMouse moves a mouse body to p.
func (ps *PhysicsSystem) MoveMouse(w *ecs.World, mouse ecs.Entity, p cp.Vector) {
	if ps == nil || w == nil {
		return
	}
	mj, ok := ecs.Get(w, mouse, component.MouseJointComponent)
	if !ok || mj.Body == nil {
		return
	}
	mj.Body.SetPosition(p)
	if mj.Joint != nil {
		mj.Joint.ActivateBodies()
	}
	if t, ok := ecs.Get(w, mouse, component.TransformComponent); ok {
		t.X, t.Y = p.X, p.Y
	}
}

// Release removes the mouse body and its joint and destroys the mouse entity.
func (ps *PhysicsSystem) Release(w *ecs.World, mouse ecs.Entity) {
	if ps == nil || w == nil {
		return
	}
	mj, _ := ecs.Get(w, mouse, component.MouseJointComponent)
	ps.dropMouse(mouse, mj)
	w.DestroyEntity(mouse)
}

func (ps *PhysicsSystem) dropMouse(mouse ecs.Entity, mj *component.MouseJoint) {
	body := ps.mice[mouse]
	if mj != nil {
		if mj.Body != nil {
			body = mj.Body
		}
		if mj.Joint != nil && ps.space.ContainsConstraint(mj.Joint) {
			ps.space.RemoveConstraint(mj.Joint)
		}
		mj.Joint = nil
		mj.Body = nil
	}
	if body != nil {
		body.EachConstraint(func(c *cp.Constraint) {
			if ps.space.ContainsConstraint(c) {
				ps.space.RemoveConstraint(c)
			}
		})
		if ps.space.ContainsBody(body) {
			ps.space.RemoveBody(body)
		}
	}
	delete(ps.mice, mouse)
}

func (ps *PhysicsSystem) releaseMiceOn(w *ecs.World, target ecs.Entity) {
	for mouse := range ps.mice {
		mj, ok := ecs.Get(w, mouse, component.MouseJointComponent)
		if !ok || ecs.Entity(mj.Target) != target {
			continue
		}
		ps.Release(w, mouse)
	}
}

// Mice returns the live mouse entities.
func (ps *PhysicsSystem) Mice() []ecs.Entity {
	out := make([]ecs.Entity, 0, len(ps.mice))
	for e := range ps.mice {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close removes every body, shape and constraint. The system starts over with
// an empty space.
func (ps *PhysicsSystem) Close(w *ecs.World) {
	if ps == nil {
		return
	}
	for mouse := range ps.mice {
		var mj *component.MouseJoint
		if w != nil {
			mj, _ = ecs.Get(w, mouse, component.MouseJointComponent)
		}
		ps.dropMouse(mouse, mj)
		if w != nil {
			w.DestroyEntity(mouse)
		}
	}
	gravity := ps.space.Gravity()
	ps.reset()
	ps.space.SetGravity(gravity)
}
