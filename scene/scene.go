package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/physicstest/common"
)

// Scene is one screen of the app. The director calls OnEnter once before the
// first Update and OnExit once after the last.
type Scene interface {
	Update() error
	Draw(screen *ebiten.Image)
	OnEnter()
	OnExit()
}

// Director swaps the running scene.
type Director interface {
	Replace(next Scene)
}

// Options are the launch settings shared by every scene.
type Options struct {
	Debug  bool
	Width  float64
	Height float64
}

func (o Options) size() (float64, float64) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = common.BaseWidth
	}
	if h <= 0 {
		h = common.BaseHeight
	}
	return w, h
}
