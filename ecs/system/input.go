package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
)

// MousePointerID is the pointer id used for the left mouse button.
const MousePointerID = 0

// PointerSample is one pressed pointer in a frame.
type PointerSample struct {
	ID int
	X  float64
	Y  float64
}

// PointerSource reports the pointers held down this frame.
type PointerSource func(dst []PointerSample) []PointerSample

// PointerSystem turns held pointers into began/moved/ended events, one touch
// at a time, and stores them on the PointerInput singleton.
type PointerSystem struct {
	source  PointerSource
	blocked func() bool

	prev       map[int]PointerSample
	suppressed map[int]struct{}
	samples    []PointerSample
	touchIDs   []ebiten.TouchID
}

// NewPointerSystem reads ebiten's mouse and touches. blocked reports whether a
// UI layer owns the pointer; a pointer that starts while blocked is ignored
// until it is released.
func NewPointerSystem(blocked func() bool) *PointerSystem {
	ps := &PointerSystem{blocked: blocked}
	ps.source = ps.ebitenPointers
	return ps
}

// NewPointerSystemWithSource is used by tests and replays.
func NewPointerSystemWithSource(source PointerSource, blocked func() bool) *PointerSystem {
	return &PointerSystem{source: source, blocked: blocked}
}

func (p *PointerSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}
	p.samples = p.source(p.samples[:0])
	_, input := ecs.Singleton(w, component.PointerInputComponent)
	input.Events = p.diff(input.Events[:0], p.samples)
}

func (p *PointerSystem) diff(dst []component.PointerEvent, samples []PointerSample) []component.PointerEvent {
	if p.prev == nil {
		p.prev = make(map[int]PointerSample)
		p.suppressed = make(map[int]struct{})
	}
	blocked := p.blocked != nil && p.blocked()

	current := make(map[int]PointerSample, len(samples))
	for _, s := range samples {
		current[s.ID] = s
	}

	var ended []int
	for id := range p.prev {
		if _, held := current[id]; !held {
			ended = append(ended, id)
		}
	}
	sort.Ints(ended)
	for _, id := range ended {
		last := p.prev[id]
		dst = append(dst, component.PointerEvent{ID: id, X: last.X, Y: last.Y, Phase: component.PointerEnded})
		delete(p.prev, id)
	}
	for id := range p.suppressed {
		if _, held := current[id]; !held {
			delete(p.suppressed, id)
		}
	}

	ordered := append([]PointerSample(nil), samples...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	for _, s := range ordered {
		if _, skip := p.suppressed[s.ID]; skip {
			continue
		}
		last, held := p.prev[s.ID]
		switch {
		case !held && blocked:
			p.suppressed[s.ID] = struct{}{}
			continue
		case !held:
			dst = append(dst, component.PointerEvent{ID: s.ID, X: s.X, Y: s.Y, Phase: component.PointerBegan})
		case last.X != s.X || last.Y != s.Y:
			dst = append(dst, component.PointerEvent{ID: s.ID, X: s.X, Y: s.Y, Phase: component.PointerMoved})
		}
		p.prev[s.ID] = s
	}
	return dst
}

func (p *PointerSystem) ebitenPointers(dst []PointerSample) []PointerSample {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		dst = append(dst, PointerSample{ID: MousePointerID, X: float64(x), Y: float64(y)})
	}
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		dst = append(dst, PointerSample{ID: int(id) + 1, X: float64(x), Y: float64(y)})
	}
	return dst
}
