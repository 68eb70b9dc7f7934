package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TPS is the fixed update rate; the physics step is 1/TPS.
	TPS = 60

	// Gravity is the default downward acceleration in pixels per second².
	Gravity = 98.0

	// GridSpace is the spacing of the background grid lines.
	GridSpace = 30

	// DragBodiesTag marks bodies the pointer may grab.
	DragBodiesTag uint32 = 0x80

	// MouseForceScale multiplies the grabbed body's mass to get the pin
	// joint's max force.
	MouseForceScale = 5000.0

	// WallGroup is the collision group of the playfield edge box.
	WallGroup uint = 1

	// WallBorder is the edge box thickness.
	WallBorder = 3.0
)
