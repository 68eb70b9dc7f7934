package component

type DebugDrawMask uint

const (
	DebugDrawNone    DebugDrawMask = 0
	DebugDrawShape   DebugDrawMask = 1 << 0
	DebugDrawJoint   DebugDrawMask = 1 << 1
	DebugDrawContact DebugDrawMask = 1 << 2
	DebugDrawAll                   = DebugDrawShape | DebugDrawJoint | DebugDrawContact
)

type DebugDraw struct {
	Mask DebugDrawMask
}

// Toggle flips between everything and nothing. A partial mask counts as
// "not everything" and becomes DebugDrawAll.
func (d *DebugDraw) Toggle() {
	if d.Mask == DebugDrawAll {
		d.Mask = DebugDrawNone
		return
	}
	d.Mask = DebugDrawAll
}

var DebugDrawComponent = NewComponent[DebugDraw]()
