package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physicstest/common"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
)

func addBall(t *testing.T, w *ecs.World, x, y, radius float64, tag uint32, static bool) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, component.PhysicsBody{
		Kind:     component.ShapeCircle,
		Radius:   radius,
		Material: component.DefaultMaterial,
		Tag:      tag,
		Static:   static,
	}); err != nil {
		t.Fatal(err)
	}
	return e
}

func addWalls(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.EdgeBoxComponent, component.EdgeBox{
		Width:    common.BaseWidth,
		Height:   common.BaseHeight,
		Border:   common.WallBorder,
		Material: component.DefaultMaterial,
		Group:    common.WallGroup,
	}); err != nil {
		t.Fatal(err)
	}
	return e
}

func countShapes(space *cp.Space) int {
	n := 0
	space.EachShape(func(*cp.Shape) { n++ })
	return n
}

func countBodies(space *cp.Space) int {
	n := 0
	space.EachBody(func(*cp.Body) { n++ })
	return n
}

func countConstraints(space *cp.Space) int {
	n := 0
	space.EachConstraint(func(*cp.Constraint) { n++ })
	return n
}

func TestEdgeBoxBuildsFourWalls(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	addWalls(t, w)
	ps.Sync(w)

	if got := countShapes(ps.Space()); got != 4 {
		t.Fatalf("expected 4 wall segments, got %d", got)
	}
	ps.Space().EachShape(func(s *cp.Shape) {
		if s.Filter.Group != common.WallGroup {
			t.Fatalf("wall segment group = %d, want %d", s.Filter.Group, common.WallGroup)
		}
	})
}

func TestGrab(t *testing.T) {
	tests := []struct {
		name   string
		tag    uint32
		static bool
		point  cp.Vector
		want   bool
	}{
		{name: "draggable_ball", tag: common.DragBodiesTag, point: cp.Vector{X: 200, Y: 200}, want: true},
		{name: "draggable_ball_edge", tag: common.DragBodiesTag, point: cp.Vector{X: 219, Y: 200}, want: true},
		{name: "empty_space", tag: common.DragBodiesTag, point: cp.Vector{X: 600, Y: 400}},
		{name: "wall", tag: common.DragBodiesTag, point: cp.Vector{X: 0, Y: 300}},
		{name: "untagged", tag: 0x01, point: cp.Vector{X: 200, Y: 200}},
		{name: "static", tag: common.DragBodiesTag, static: true, point: cp.Vector{X: 200, Y: 200}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ps := NewPhysicsSystem()
			addWalls(t, w)
			addBall(t, w, 200, 200, 20, tc.tag, tc.static)

			mouse := w.CreateEntity()
			got := ps.Grab(w, mouse, MousePointerID, tc.point)
			if got != tc.want {
				t.Fatalf("Grab = %v, want %v", got, tc.want)
			}
			if !got {
				if ecs.Has(w, mouse, component.MouseJointComponent) {
					t.Fatalf("rejected grab must not add a mouse joint")
				}
				if n := countConstraints(ps.Space()); n != 0 {
					t.Fatalf("rejected grab added %d constraints", n)
				}
			}
		})
	}
}

func TestGrabPinsKinematicBody(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	ball := addBall(t, w, 200, 200, 20, common.DragBodiesTag, false)

	mouse := w.CreateEntity()
	if !ps.Grab(w, mouse, 3, cp.Vector{X: 205, Y: 195}) {
		t.Fatal("expected grab")
	}
	mj, ok := ecs.Get(w, mouse, component.MouseJointComponent)
	if !ok {
		t.Fatal("mouse joint missing")
	}
	body, _ := ecs.Get(w, ball, component.PhysicsBodyComponent)

	if ecs.Entity(mj.Target) != ball {
		t.Fatalf("target = %v, want %v", mj.Target, ball)
	}
	if mj.PointerID != 3 {
		t.Fatalf("pointer id = %d, want 3", mj.PointerID)
	}
	if mj.Body.GetType() != cp.BODY_KINEMATIC {
		t.Fatalf("mouse body type = %d, want kinematic", mj.Body.GetType())
	}
	if p := mj.Body.Position(); p.X != 205 || p.Y != 195 {
		t.Fatalf("mouse body at %v, want (205,195)", p)
	}
	want := common.MouseForceScale * body.Body.Mass()
	if math.Abs(mj.MaxForce-want) > 1e-9 {
		t.Fatalf("max force = %v, want %v", mj.MaxForce, want)
	}
	wantMass := component.DefaultMaterial.Density * math.Pi * 20 * 20
	if math.Abs(body.Body.Mass()-wantMass) > 1e-6 {
		t.Fatalf("ball mass = %v, want density*area %v", body.Body.Mass(), wantMass)
	}
	if !ps.Space().ContainsConstraint(mj.Joint) {
		t.Fatal("joint not in space")
	}
}

func TestShapesAtNewestFirst(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	older := addBall(t, w, 200, 200, 20, common.DragBodiesTag, false)
	newer := addBall(t, w, 210, 200, 20, common.DragBodiesTag, false)
	ps.Sync(w)

	hits := ps.ShapesAt(cp.Vector{X: 205, Y: 200})
	if len(hits) != 2 || hits[0] != newer || hits[1] != older {
		t.Fatalf("hits = %v, want [%v %v]", hits, newer, older)
	}

	mouse := w.CreateEntity()
	if !ps.Grab(w, mouse, 0, cp.Vector{X: 205, Y: 200}) {
		t.Fatal("expected grab")
	}
	mj, _ := ecs.Get(w, mouse, component.MouseJointComponent)
	if ecs.Entity(mj.Target) != newer {
		t.Fatalf("grabbed %v, want topmost %v", mj.Target, newer)
	}
}

func TestReleaseRemovesBodyAndJoint(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	addBall(t, w, 200, 200, 20, common.DragBodiesTag, false)

	mouse := w.CreateEntity()
	if !ps.Grab(w, mouse, 0, cp.Vector{X: 200, Y: 200}) {
		t.Fatal("expected grab")
	}
	mj, _ := ecs.Get(w, mouse, component.MouseJointComponent)
	mouseBody, joint := mj.Body, mj.Joint
	if countBodies(ps.Space()) != 2 {
		t.Fatalf("expected ball and mouse bodies, got %d", countBodies(ps.Space()))
	}

	ps.Release(w, mouse)

	if ps.Space().ContainsBody(mouseBody) {
		t.Fatal("mouse body still in space")
	}
	if ps.Space().ContainsConstraint(joint) {
		t.Fatal("joint still in space")
	}
	if w.IsAlive(mouse) {
		t.Fatal("mouse entity still alive")
	}
	if len(ps.Mice()) != 0 {
		t.Fatalf("expected no mice, got %v", ps.Mice())
	}
	if countBodies(ps.Space()) != 1 {
		t.Fatalf("expected only the ball body, got %d", countBodies(ps.Space()))
	}
}

func TestDestroyingTargetReleasesMouse(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	ball := addBall(t, w, 200, 200, 20, common.DragBodiesTag, false)

	mouse := w.CreateEntity()
	if !ps.Grab(w, mouse, 0, cp.Vector{X: 200, Y: 200}) {
		t.Fatal("expected grab")
	}
	w.DestroyEntity(ball)
	ps.Update(w)

	if w.IsAlive(mouse) {
		t.Fatal("mouse should be released with its target")
	}
	if n := countConstraints(ps.Space()); n != 0 {
		t.Fatalf("expected no constraints, got %d", n)
	}
	if n := countBodies(ps.Space()); n != 0 {
		t.Fatalf("expected empty space, got %d bodies", n)
	}
}

func TestBallFallsAndSyncsTransform(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	ball := addBall(t, w, 200, 200, 20, common.DragBodiesTag, false)

	for i := 0; i < 30; i++ {
		ps.Update(w)
	}
	tr, _ := ecs.Get(w, ball, component.TransformComponent)
	if tr.Y <= 200 {
		t.Fatalf("ball should fall with positive gravity, y = %v", tr.Y)
	}
}

func TestMoveMousePullsBody(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	ps.SetGravity(0, 0)
	ball := addBall(t, w, 200, 200, 20, common.DragBodiesTag, false)

	mouse := w.CreateEntity()
	if !ps.Grab(w, mouse, 0, cp.Vector{X: 200, Y: 200}) {
		t.Fatal("expected grab")
	}
	ps.MoveMouse(w, mouse, cp.Vector{X: 400, Y: 200})
	mt, _ := ecs.Get(w, mouse, component.TransformComponent)
	if mt.X != 400 {
		t.Fatalf("mouse transform x = %v, want 400", mt.X)
	}
	for i := 0; i < 60; i++ {
		ps.Update(w)
	}
	tr, _ := ecs.Get(w, ball, component.TransformComponent)
	if tr.X <= 300 {
		t.Fatalf("ball should follow the mouse, x = %v", tr.X)
	}
}

func TestCloseEmptiesSpaceAndKeepsGravity(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	ps.SetGravity(0, 321)
	addWalls(t, w)
	addBall(t, w, 200, 200, 20, common.DragBodiesTag, false)
	mouse := w.CreateEntity()
	if !ps.Grab(w, mouse, 0, cp.Vector{X: 200, Y: 200}) {
		t.Fatal("expected grab")
	}

	ps.Close(w)

	if countShapes(ps.Space()) != 0 || countBodies(ps.Space()) != 0 || countConstraints(ps.Space()) != 0 {
		t.Fatal("expected an empty space after Close")
	}
	if w.IsAlive(mouse) {
		t.Fatal("Close should destroy mouse entities")
	}
	if g := ps.Space().Gravity(); g.Y != 321 {
		t.Fatalf("gravity = %v, want y 321", g)
	}
}

func TestDebugDrawFlags(t *testing.T) {
	tests := []struct {
		mask component.DebugDrawMask
		want uint
	}{
		{component.DebugDrawNone, 0},
		{component.DebugDrawShape, cp.DRAW_SHAPES},
		{component.DebugDrawJoint | component.DebugDrawContact, cp.DRAW_CONSTRAINTS | cp.DRAW_COLLISION_POINTS},
		{component.DebugDrawAll, cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS | cp.DRAW_COLLISION_POINTS},
	}
	for _, tc := range tests {
		if got := debugDrawFlags(tc.mask); got != tc.want {
			t.Fatalf("debugDrawFlags(%d) = %d, want %d", tc.mask, got, tc.want)
		}
	}
}
