package scene

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/ebitenui/ebitenui"
	uiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/physicstest/common"
	"github.com/milk9111/physicstest/demos"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
	"github.com/milk9111/physicstest/ecs/entity"
	"github.com/milk9111/physicstest/ecs/system"
	"github.com/milk9111/physicstest/prefabs"
)

// DemoScene runs one demo: a walled playfield full of draggable shapes.
type DemoScene struct {
	director Director
	spec     demos.Spec
	opts     Options

	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	pointer   *system.PointerSystem
	drag      *system.DragSystem
	render    *system.RenderSystem
	ui        *ebitenui.UI
	rng       *rand.Rand

	info    ecs.Entity
	entered bool
}

// NewDemoScene builds the demo world and its menu.
func NewDemoScene(director Director, spec demos.Spec, opts Options) (*DemoScene, error) {
	s, err := newDemoScene(director, spec, opts)
	if err != nil {
		return nil, err
	}
	s.ui = newDemoMenu(demoMenuActions{
		Back:        s.Back,
		Restart:     s.Restart,
		ToggleDebug: s.ToggleDebug,
	})
	s.pointer = system.NewPointerSystem(func() bool { return uiinput.UIHovered })
	s.scheduler = ecs.NewScheduler(s.pointer, s.drag, s.physics)
	return s, nil
}

// newDemoScene builds everything except the UI and the ebiten pointer source.
func newDemoScene(director Director, spec demos.Spec, opts Options) (*DemoScene, error) {
	s := &DemoScene{
		director: director,
		spec:     spec,
		opts:     opts,
		physics:  system.NewPhysicsSystem(),
		render:   system.NewRenderSystem(),
	}
	s.drag = system.NewDragSystem(s.physics)
	s.scheduler = ecs.NewScheduler(s.drag, s.physics)
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DemoScene) build() error {
	s.world = ecs.NewWorld()
	s.rng = rand.New(rand.NewSource(s.spec.Seed))
	width, height := s.opts.size()

	if s.spec.Gravity != nil {
		s.physics.SetGravity(s.spec.Gravity.X, s.spec.Gravity.Y)
	} else {
		s.physics.SetGravity(0, common.Gravity)
	}

	if _, err := entity.NewBackground(s.world, width, height); err != nil {
		return fmt.Errorf("demo %s: %w", s.spec.Name, err)
	}
	if s.opts.Debug {
		_, dd := ecs.Singleton(s.world, component.DebugDrawComponent)
		dd.Mask = component.DebugDrawAll
	}
	if _, err := entity.NewWalls(s.world, width, height, materialFromSpec(s.spec.Walls)); err != nil {
		return fmt.Errorf("demo %s: %w", s.spec.Name, err)
	}

	spawns := s.spec.Expand()
	if s.spec.Script != "" {
		scripted, err := s.runScript(width, height)
		if err != nil {
			return fmt.Errorf("demo %s: %w", s.spec.Name, err)
		}
		spawns = append(spawns, scripted...)
	}
	for i, sp := range spawns {
		if err := s.spawn(sp); err != nil {
			return fmt.Errorf("demo %s: spawn %d: %w", s.spec.Name, i, err)
		}
	}

	s.physics.Sync(s.world)
	return nil
}

func (s *DemoScene) runScript(width, height float64) ([]demos.SpawnSpec, error) {
	src, err := demos.LoadScript(s.spec.Script)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", s.spec.Script, err)
	}
	return demos.RunSpawnScript(context.Background(), src, demos.ScriptEnv{
		Width:  width,
		Height: height,
		Seed:   s.spec.Seed,
	})
}

func (s *DemoScene) spawn(sp demos.SpawnSpec) error {
	mat := materialFromSpec(sp.Material)
	var err error
	switch sp.Shape {
	case demos.ShapeBall:
		_, err = s.CreateBall(sp.X, sp.Y, sp.Radius, mat)
	case demos.ShapeBox:
		_, err = s.createBox(sp.X, sp.Y, sp.Width, sp.Height, s.rotation(sp), mat)
	case demos.ShapeTriangle:
		_, err = s.createTriangle(sp.X, sp.Y, sp.Width, sp.Height, s.rotation(sp), mat)
	default:
		err = fmt.Errorf("unknown shape %q", sp.Shape)
	}
	return err
}

func (s *DemoScene) rotation(sp demos.SpawnSpec) float64 {
	if sp.Rotation != nil {
		return *sp.Rotation
	}
	return entity.RandomRotation(s.rng)
}

// CreateBall spawns a draggable circle. A zero material keeps the prefab's.
func (s *DemoScene) CreateBall(x, y, radius float64, mat component.Material) (ecs.Entity, error) {
	return entity.NewBall(s.world, x, y, radius, mat)
}

// CreateBox spawns a draggable box at a random rotation.
func (s *DemoScene) CreateBox(x, y, width, height float64, mat component.Material) (ecs.Entity, error) {
	return s.createBox(x, y, width, height, entity.RandomRotation(s.rng), mat)
}

// CreateTriangle spawns a draggable triangle at a random rotation.
func (s *DemoScene) CreateTriangle(x, y, width, height float64, mat component.Material) (ecs.Entity, error) {
	return s.createTriangle(x, y, width, height, entity.RandomRotation(s.rng), mat)
}

func (s *DemoScene) createBox(x, y, width, height, rotation float64, mat component.Material) (ecs.Entity, error) {
	return entity.NewBox(s.world, x, y, width, height, rotation, mat)
}

func (s *DemoScene) createTriangle(x, y, width, height, rotation float64, mat component.Material) (ecs.Entity, error) {
	return entity.NewTriangle(s.world, x, y, width, height, rotation, mat)
}

func (s *DemoScene) OnEnter() {
	if s.entered {
		return
	}
	s.entered = true
	e, err := entity.NewInfoLabel(s.world, s.DemoInfo())
	if err != nil {
		log.Printf("demo: %s: info label: %v", s.spec.Name, err)
		return
	}
	s.info = e
}

// OnExit releases every drag and empties the physics space.
func (s *DemoScene) OnExit() {
	if !s.entered {
		return
	}
	s.entered = false
	s.teardown()
}

func (s *DemoScene) teardown() {
	s.drag.ReleaseAll(s.world)
	s.physics.Close(s.world)
	s.world = ecs.NewWorld()
	s.info = 0
}

// DemoInfo is the text of the info label.
func (s *DemoScene) DemoInfo() string {
	return s.spec.InfoText()
}

// Restart rebuilds the demo from its definition.
func (s *DemoScene) Restart() {
	entered := s.entered
	s.entered = false
	s.teardown()
	if err := s.build(); err != nil {
		log.Printf("demo: restart %s: %v", s.spec.Name, err)
	}
	if entered {
		s.OnEnter()
	}
}

// Reload re-reads the demo definition from disk and restarts. If the file no
// longer parses the running definition is kept.
func (s *DemoScene) Reload() {
	if s.spec.File != "" {
		spec, err := demos.LoadSpec(s.spec.File)
		if err != nil {
			log.Printf("demo: reload %s: %v", s.spec.File, err)
		} else {
			s.spec = spec
		}
	}
	s.Restart()
}

// Back returns to the demo list.
func (s *DemoScene) Back() {
	if s.director == nil {
		return
	}
	content, err := NewContentScene(s.director, s.opts)
	if err != nil {
		log.Printf("demo: back: %v", err)
		return
	}
	s.director.Replace(content)
}

// ToggleDebug switches physics debug drawing between everything and nothing.
func (s *DemoScene) ToggleDebug() {
	_, dd := ecs.Singleton(s.world, component.DebugDrawComponent)
	dd.Toggle()
}

func (s *DemoScene) TouchBegan(id int, x, y float64) bool {
	return s.drag.TouchBegan(s.world, id, x, y)
}

func (s *DemoScene) TouchMoved(id int, x, y float64) {
	s.drag.TouchMoved(s.world, id, x, y)
}

func (s *DemoScene) TouchEnded(id int) {
	s.drag.TouchEnded(s.world, id)
}

func (s *DemoScene) World() *ecs.World              { return s.world }
func (s *DemoScene) Physics() *system.PhysicsSystem { return s.physics }
func (s *DemoScene) Spec() demos.Spec               { return s.spec }

func (s *DemoScene) Update() error {
	if s.ui != nil {
		s.ui.Update()
	}
	s.handleKeys()
	s.scheduler.Update(s.world)
	return nil
}

func (s *DemoScene) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.CopySnapshot()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.Restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		s.ToggleDebug()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		s.Back()
	}
}

func (s *DemoScene) Draw(screen *ebiten.Image) {
	s.render.Draw(s.world, screen)
	system.DrawPhysicsDebug(s.physics.Space(), s.world, screen)
	if s.opts.Debug {
		system.DrawDebugStats(s.physics.Space(), s.drag.Active(), screen)
	}
	if s.ui != nil {
		s.ui.Draw(screen)
	}
}

func materialFromSpec(spec prefabs.MaterialSpec) component.Material {
	return component.Material{
		Density:    spec.Density,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
	}
}
