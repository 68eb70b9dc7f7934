package scene

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/physicstest/demos"
)

var contentBackground = color.RGBA{R: 40, G: 44, B: 52, A: 255}

// ContentScene lists every demo. Picking one replaces the scene with it.
type ContentScene struct {
	director Director
	opts     Options
	specs    []demos.Spec
	ui       *ebitenui.UI
}

func NewContentScene(director Director, opts Options) (*ContentScene, error) {
	specs, err := demos.List()
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	s := &ContentScene{director: director, opts: opts, specs: specs}
	labels := make([]string, len(specs))
	for i, spec := range specs {
		labels[i] = fmt.Sprintf("%d. %s", i+1, spec.DisplayTitle())
	}
	s.ui = newListMenu("Physics demos", labels, s.Open)
	return s, nil
}

// Open starts demo i.
func (s *ContentScene) Open(i int) {
	if i < 0 || i >= len(s.specs) || s.director == nil {
		return
	}
	demo, err := NewDemoScene(s.director, s.specs[i], s.opts)
	if err != nil {
		log.Printf("content: open %s: %v", s.specs[i].Name, err)
		return
	}
	s.director.Replace(demo)
}

func (s *ContentScene) Specs() []demos.Spec { return s.specs }

func (s *ContentScene) OnEnter() {}
func (s *ContentScene) OnExit()  {}

func (s *ContentScene) Update() error {
	s.ui.Update()
	for i := 0; i < len(s.specs) && i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			s.Open(i)
			break
		}
	}
	return nil
}

func (s *ContentScene) Draw(screen *ebiten.Image) {
	screen.Fill(contentBackground)
	s.ui.Draw(screen)
}
