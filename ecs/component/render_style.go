package component

import "image/color"

// ShapeStyle colours a physics shape when it is rendered.
type ShapeStyle struct {
	Fill    color.RGBA
	Outline color.RGBA
}

var ShapeStyleComponent = NewComponent[ShapeStyle]()

// Background is the flat colour layer plus grid drawn under the playfield.
type Background struct {
	Width     float64
	Height    float64
	Color     color.RGBA
	GridSpace float64
	GridColor color.RGBA
	GridWidth float64
}

var BackgroundComponent = NewComponent[Background]()

// Label is screen-space text.
type Label struct {
	Text      string
	X         float64
	Y         float64
	Size      float64
	WrapWidth float64
	Color     color.RGBA
}

var LabelComponent = NewComponent[Label]()
