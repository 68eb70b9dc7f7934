package system

import (
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physicstest/assets"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
)

const circleOutlineWidth = 2

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

func whitePixel() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// RenderSystem draws the background layer, grid, bodies, mouse anchors and
// labels.
// It only draws; Update is a no-op so it can sit in a scheduler.
type RenderSystem struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

func NewRenderSystem() *RenderSystem { return &RenderSystem{} }

func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	ecs.ForEach(w, component.BackgroundComponent, func(_ ecs.Entity, bg *component.Background) {
		drawBackground(screen, bg)
	})

	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		style, ok := ecs.Get(w, e, component.ShapeStyleComponent)
		if !ok {
			return
		}
		switch body.Kind {
		case component.ShapeCircle:
			r.drawCircle(screen, t, body.Radius, style)
		case component.ShapePolygon:
			r.drawPolygon(screen, t, body.Verts, style)
		default:
			hw, hh := body.Width/2, body.Height/2
			r.drawPolygon(screen, t, []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}, style)
		}
	})

	ecs.ForEach2(w, component.MouseJointComponent, component.TransformComponent, func(_ ecs.Entity, mj *component.MouseJoint, t *component.Transform) {
		vector.StrokeCircle(screen, float32(t.X), float32(t.Y), 6, 2, color.RGBA{R: 200, G: 200, B: 200, A: 200}, true)
	})

	ecs.ForEach(w, component.LabelComponent, func(_ ecs.Entity, label *component.Label) {
		drawLabel(screen, label)
	})
}

func drawLabel(screen *ebiten.Image, label *component.Label) {
	if label.Text == "" {
		return
	}
	face := assets.Face(label.Size)
	lineHeight := label.Size * 1.2
	op := &text.DrawOptions{}
	op.ColorScale.ScaleWithColor(label.Color)
	for i, line := range WrapText(label.Text, label.WrapWidth, func(s string) float64 { return text.Advance(s, face) }) {
		op.GeoM.Reset()
		op.GeoM.Translate(label.X, label.Y+float64(i)*lineHeight)
		text.Draw(screen, line, face, op)
	}
}

// WrapText breaks s into lines no wider than width, splitting on spaces.
// A single word wider than width gets its own line. Width <= 0 only splits
// on newlines.
func WrapText(s string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		if width <= 0 {
			lines = append(lines, para)
			continue
		}
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if measure(candidate) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

func drawBackground(screen *ebiten.Image, bg *component.Background) {
	vector.FillRect(screen, 0, 0, float32(bg.Width), float32(bg.Height), bg.Color, false)
	if bg.GridSpace <= 0 {
		return
	}
	width := float32(bg.GridWidth)
	if width <= 0 {
		width = 1
	}
	for y := 0.0; y < bg.Height; y += bg.GridSpace {
		vector.StrokeLine(screen, 0, float32(y), float32(bg.Width), float32(y), width, bg.GridColor, false)
	}
	for x := 0.0; x < bg.Width; x += bg.GridSpace {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(bg.Height), width, bg.GridColor, false)
	}
}

func (r *RenderSystem) drawCircle(screen *ebiten.Image, t *component.Transform, radius float64, style *component.ShapeStyle) {
	cx, cy := float32(t.X), float32(t.Y)
	vector.FillCircle(screen, cx, cy, float32(radius), style.Fill, true)
	vector.StrokeCircle(screen, cx, cy, float32(radius), circleOutlineWidth, style.Outline, true)
	// Spoke so rotation is visible.
	ex := t.X + math.Cos(t.Rotation)*radius
	ey := t.Y + math.Sin(t.Rotation)*radius
	vector.StrokeLine(screen, cx, cy, float32(ex), float32(ey), circleOutlineWidth, style.Outline, true)
}

func (r *RenderSystem) drawPolygon(screen *ebiten.Image, t *component.Transform, local []cp.Vector, style *component.ShapeStyle) {
	if len(local) < 3 {
		return
	}
	world := transformVerts(t, local)

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	cr, cg, cb, ca := colorScale(style.Fill)
	for _, v := range world {
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX: float32(v.X), DstY: float32(v.Y),
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	for i := 1; i < len(world)-1; i++ {
		r.indices = append(r.indices, 0, uint16(i), uint16(i+1))
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true, ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha}
	screen.DrawTriangles(r.vertices, r.indices, whitePixel(), op)

	for i := range world {
		a := world[i]
		b := world[(i+1)%len(world)]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), circleOutlineWidth, style.Outline, true)
	}
}

func transformVerts(t *component.Transform, local []cp.Vector) []cp.Vector {
	rot := cp.ForAngle(t.Rotation)
	out := make([]cp.Vector, len(local))
	for i, v := range local {
		out[i] = v.Rotate(rot).Add(cp.Vector{X: t.X, Y: t.Y})
	}
	return out
}

func colorScale(c color.RGBA) (float32, float32, float32, float32) {
	// color.RGBA is already premultiplied.
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}
