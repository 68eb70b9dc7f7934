package component

type PointerPhase int

const (
	PointerBegan PointerPhase = iota
	PointerMoved
	PointerEnded
)

func (p PointerPhase) String() string {
	switch p {
	case PointerBegan:
		return "began"
	case PointerMoved:
		return "moved"
	case PointerEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// PointerEvent is one touch-style transition. The mouse is pointer 0; touches
// use their ebiten id plus one.
type PointerEvent struct {
	ID    int
	X     float64
	Y     float64
	Phase PointerPhase
}

// PointerInput holds the events gathered for the current frame.
type PointerInput struct {
	Events []PointerEvent
}

var PointerInputComponent = NewComponent[PointerInput]()
