package scene

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/physicstest/common"
	"github.com/milk9111/physicstest/demos"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
	"github.com/milk9111/physicstest/prefabs"
)

type recordingDirector struct {
	replaced []Scene
}

func (d *recordingDirector) Replace(next Scene) { d.replaced = append(d.replaced, next) }

func loadDemo(t *testing.T, name string, opts Options) *DemoScene {
	t.Helper()
	spec, err := demos.LoadSpec(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	s, err := newDemoScene(&recordingDirector{}, spec, opts)
	if err != nil {
		t.Fatalf("new demo %s: %v", name, err)
	}
	return s
}

func dynamicBodies(s *DemoScene) int {
	n := 0
	s.Physics().Space().EachBody(func(b *cp.Body) {
		if b.GetType() == cp.BODY_DYNAMIC {
			n++
		}
	})
	return n
}

func countShapes(space *cp.Space) int {
	n := 0
	space.EachShape(func(*cp.Shape) { n++ })
	return n
}

func TestDemoSceneBuild(t *testing.T) {
	tests := []struct {
		name       string
		bodies     int
		gravityY   float64
		wantScript bool
	}{
		{name: "shapes", bodies: 13, gravityY: common.Gravity},
		{name: "bouncy", bodies: 16, gravityY: 200},
		{name: "pyramid", bodies: 59, gravityY: common.Gravity, wantScript: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := loadDemo(t, tc.name, Options{})
			if got := dynamicBodies(s); got != tc.bodies {
				t.Fatalf("dynamic bodies = %d, want %d", got, tc.bodies)
			}
			// Four wall segments plus one shape per body.
			if got := countShapes(s.Physics().Space()); got != tc.bodies+4 {
				t.Fatalf("shapes = %d, want %d", got, tc.bodies+4)
			}
			if g := s.Physics().Space().Gravity(); g.Y != tc.gravityY {
				t.Fatalf("gravity = %v, want y=%v", g, tc.gravityY)
			}
			if (s.Spec().Script != "") != tc.wantScript {
				t.Fatalf("script = %q", s.Spec().Script)
			}
		})
	}
}

func TestDemoSceneWallMaterial(t *testing.T) {
	s := loadDemo(t, "bouncy", Options{})
	e, ok := s.World().First(component.EdgeBoxComponent.Kind())
	if !ok {
		t.Fatal("walls missing")
	}
	box, _ := ecs.Get(s.World(), e, component.EdgeBoxComponent)
	if box.Material.Elasticity != 1 || box.Material.Friction != 0.2 {
		t.Fatalf("wall material = %+v", box.Material)
	}
}

func TestDemoSceneTouch(t *testing.T) {
	s := loadDemo(t, "shapes", Options{})

	if s.TouchBegan(1, 640, 600) {
		t.Fatal("touch on empty space should be rejected")
	}
	if !s.TouchBegan(2, 200, 200) {
		t.Fatal("touch on a ball should grab it")
	}
	if len(s.Physics().Mice()) != 1 {
		t.Fatalf("expected one mouse, got %d", len(s.Physics().Mice()))
	}
	s.TouchMoved(2, 260, 260)
	s.TouchEnded(2)
	if len(s.Physics().Mice()) != 0 {
		t.Fatalf("mouse should be released, got %d", len(s.Physics().Mice()))
	}
	n := 0
	s.Physics().Space().EachConstraint(func(*cp.Constraint) { n++ })
	if n != 0 {
		t.Fatalf("expected no constraints after release, got %d", n)
	}
}

func TestDemoSceneToggleDebug(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want component.DebugDrawMask
	}{
		{name: "default_off", opts: Options{}, want: component.DebugDrawNone},
		{name: "debug_flag_on", opts: Options{Debug: true}, want: component.DebugDrawAll},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := loadDemo(t, "shapes", tc.opts)
			_, dd := ecs.Singleton(s.World(), component.DebugDrawComponent)
			if dd.Mask != tc.want {
				t.Fatalf("initial mask = %v, want %v", dd.Mask, tc.want)
			}
			s.ToggleDebug()
			s.ToggleDebug()
			if dd.Mask != tc.want {
				t.Fatalf("double toggle mask = %v, want %v", dd.Mask, tc.want)
			}
			s.ToggleDebug()
			if dd.Mask == tc.want {
				t.Fatal("toggle should flip the mask")
			}
		})
	}
}

func TestDemoSceneInfoLabel(t *testing.T) {
	s, err := newDemoScene(&recordingDirector{}, demos.Spec{Name: "empty"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if s.DemoInfo() != demos.DefaultInfo {
		t.Fatalf("DemoInfo = %q, want %q", s.DemoInfo(), demos.DefaultInfo)
	}
	if _, ok := s.World().First(component.LabelComponent.Kind()); ok {
		t.Fatal("label should only appear on enter")
	}

	s.OnEnter()
	s.OnEnter()
	labels := s.World().Query(component.LabelComponent.Kind())
	if len(labels) != 1 {
		t.Fatalf("expected one label, got %d", len(labels))
	}
	label, _ := ecs.Get(s.World(), labels[0], component.LabelComponent)
	if label.Text != demos.DefaultInfo {
		t.Fatalf("label text = %q", label.Text)
	}
}

func TestDemoSceneRestart(t *testing.T) {
	s := loadDemo(t, "shapes", Options{})
	s.OnEnter()
	before := dynamicBodies(s)

	if !s.TouchBegan(0, 200, 200) {
		t.Fatal("expected grab")
	}
	s.Restart()

	if got := dynamicBodies(s); got != before {
		t.Fatalf("bodies after restart = %d, want %d", got, before)
	}
	if len(s.Physics().Mice()) != 0 {
		t.Fatal("restart should release every drag")
	}
	if len(s.World().Query(component.LabelComponent.Kind())) != 1 {
		t.Fatal("restart should keep the info label of an entered scene")
	}
}

func TestDemoSceneRestartKeepsCreatedShapesOut(t *testing.T) {
	s := loadDemo(t, "shapes", Options{})
	before := dynamicBodies(s)
	if _, err := s.CreateBall(640, 360, 15, component.Material{}); err != nil {
		t.Fatal(err)
	}
	s.Physics().Sync(s.World())
	if got := dynamicBodies(s); got != before+1 {
		t.Fatalf("bodies after CreateBall = %d, want %d", got, before+1)
	}
	s.Restart()
	if got := dynamicBodies(s); got != before {
		t.Fatalf("bodies after restart = %d, want %d", got, before)
	}
}

func TestDemoSceneExit(t *testing.T) {
	s := loadDemo(t, "shapes", Options{})
	s.OnEnter()
	s.TouchBegan(0, 200, 200)
	s.OnExit()

	if got := countShapes(s.Physics().Space()); got != 0 {
		t.Fatalf("shapes after exit = %d, want 0", got)
	}
	if got := dynamicBodies(s); got != 0 {
		t.Fatalf("bodies after exit = %d, want 0", got)
	}
}

func TestDemoSceneUpdateSteps(t *testing.T) {
	s := loadDemo(t, "shapes", Options{})
	hits := s.Physics().ShapesAt(cp.Vector{X: 200, Y: 200})
	if len(hits) == 0 {
		t.Fatal("expected a ball at (200, 200)")
	}
	ball := hits[0]
	startY := mustTransform(t, s, ball).Y
	for i := 0; i < 30; i++ {
		s.scheduler.Update(s.World())
	}
	if y := mustTransform(t, s, ball).Y; y <= startY {
		t.Fatalf("ball should fall, y went %v -> %v", startY, y)
	}
}

func mustTransform(t *testing.T, s *DemoScene, e ecs.Entity) component.Transform {
	t.Helper()
	tr, ok := ecs.Get(s.World(), e, component.TransformComponent)
	if !ok {
		t.Fatalf("entity %v has no transform", e)
	}
	return *tr
}

func TestSnapshot(t *testing.T) {
	s := loadDemo(t, "shapes", Options{})
	snap := Snapshot(s.World(), s.Spec(), 0, 50)

	if snap.Name != "shapes_snapshot" || snap.Script != "" {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if snap.Gravity == nil || snap.Gravity.Y != 50 {
		t.Fatalf("gravity = %+v", snap.Gravity)
	}

	counts := map[string]int{}
	for _, sp := range snap.Spawns {
		counts[sp.Shape]++
		switch sp.Shape {
		case demos.ShapeBall:
			if sp.Rotation != nil || sp.Radius != 20 {
				t.Fatalf("ball spawn %+v", sp)
			}
		default:
			if sp.Rotation == nil || sp.Width <= 0 {
				t.Fatalf("%s spawn %+v", sp.Shape, sp)
			}
		}
		if sp.Material != (prefabs.MaterialSpec{Density: 0.1, Friction: 0.5, Elasticity: 0.5}) {
			t.Fatalf("material = %+v", sp.Material)
		}
	}
	if counts[demos.ShapeBall] != 5 || counts[demos.ShapeBox] != 4 || counts[demos.ShapeTriangle] != 4 {
		t.Fatalf("snapshot shapes = %v", counts)
	}

	data, err := snap.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := demos.Parse(data)
	if err != nil {
		t.Fatalf("snapshot should parse back: %v", err)
	}
	rebuilt, err := newDemoScene(&recordingDirector{}, back, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := dynamicBodies(rebuilt); got != 13 {
		t.Fatalf("rebuilt bodies = %d, want 13", got)
	}
}
