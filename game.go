package main

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/physicstest/common"
	"github.com/milk9111/physicstest/prefabs"
	"github.com/milk9111/physicstest/scene"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// fadeSeconds is the length of each half of a scene transition.
const fadeSeconds = 0.25

type reloader interface {
	Reload()
}

// Game is the ebiten entry point and the scene director.
type Game struct {
	frames int

	current scene.Scene
	pending scene.Scene

	fade      *gween.Tween
	fadeAlpha float32
	fadingOut bool

	watcher *prefabs.Watcher
}

func NewGame(watcher *prefabs.Watcher) *Game {
	return &Game{watcher: watcher}
}

// Replace fades out the running scene and fades the next one in. The swap
// happens on a later Update so callers may replace from inside a scene.
func (g *Game) Replace(next scene.Scene) {
	if next == nil {
		return
	}
	if g.current == nil {
		g.current = next
		g.current.OnEnter()
		return
	}
	g.pending = next
	if !g.fadingOut {
		g.fade = gween.New(g.fadeAlpha, 1, fadeSeconds, ease.OutQuad)
		g.fadingOut = true
	}
}

func (g *Game) Current() scene.Scene { return g.current }

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()
	g.stepFade(1.0 / common.TPS)

	if g.current == nil {
		return nil
	}
	return g.current.Update()
}

func (g *Game) stepFade(dt float32) {
	if g.fade == nil {
		return
	}
	alpha, done := g.fade.Update(dt)
	g.fadeAlpha = alpha
	if !done {
		return
	}
	if g.fadingOut {
		if g.current != nil {
			g.current.OnExit()
		}
		g.current = g.pending
		g.pending = nil
		g.current.OnEnter()
		g.fade = gween.New(1, 0, fadeSeconds, ease.InQuad)
		g.fadingOut = false
		return
	}
	g.fade = nil
	g.fadeAlpha = 0
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("watch: %v", err)
	default:
	}
	changed := g.watcher.Poll()
	if len(changed) == 0 {
		return
	}
	log.Printf("watch: reloading after change to %v", changed)
	if r, ok := g.current.(reloader); ok {
		r.Reload()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.current != nil {
		g.current.Draw(screen)
	}
	if g.fadeAlpha > 0 {
		a := uint8(g.fadeAlpha * 255)
		vector.FillRect(screen, 0, 0, float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy()), color.RGBA{A: a}, false)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
