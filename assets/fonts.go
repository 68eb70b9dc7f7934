package assets

import (
	"bytes"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontSource *text.GoTextFaceSource

	facesMu sync.Mutex
	faces   = map[float64]text.Face{}
)

func loadFontSource() {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("assets: load goregular: %v; using basicfont", err)
		return
	}
	fontSource = src
}

// Face returns the UI font at size. If the TrueType source fails to load it
// falls back to the fixed 7x13 bitmap font.
func Face(size float64) text.Face {
	fontOnce.Do(loadFontSource)

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f
	}
	var f text.Face
	if fontSource != nil {
		f = &text.GoTextFace{Source: fontSource, Size: size}
	} else {
		f = text.NewGoXFace(basicfont.Face7x13)
	}
	faces[size] = f
	return f
}
