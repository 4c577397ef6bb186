package textlabel

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/funnel/pkg/funnel/label"
)

// Metrics is the measured extent of a line of text.
type Metrics struct {
	Width  float64
	Height float64
	Ascent float64
}

// Measurer measures single-line label text.
type Measurer interface {
	Measure(text string, f label.Font) Metrics
}

// boldWeight is the lowest CSS weight drawn with the bold face.
const boldWeight = 600

type faceKey struct {
	bold bool
	size float64
}

// GoFonts measures text with the Go Regular and Go Bold OpenType faces.
// Faces are created lazily per size and reused. A GoFonts is safe for
// concurrent use; measurements are serialized because faces are not.
type GoFonts struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// NewGoFonts parses the embedded Go fonts.
func NewGoFonts() (*GoFonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &GoFonts{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Measure implements Measurer. A non-positive size measures as empty.
func (g *GoFonts) Measure(text string, f label.Font) Metrics {
	if f.Size <= 0 {
		return Metrics{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	face, err := g.face(faceKey{bold: f.Weight >= boldWeight, size: f.Size})
	if err != nil {
		return Metrics{}
	}
	m := face.Metrics()
	return Metrics{
		Width:  toFloat(font.MeasureString(face, text)),
		Height: toFloat(m.Ascent + m.Descent),
		Ascent: toFloat(m.Ascent),
	}
}

// face must be called with g.mu held.
func (g *GoFonts) face(k faceKey) (font.Face, error) {
	if f, ok := g.faces[k]; ok {
		return f, nil
	}
	src := g.regular
	if k.bold {
		src = g.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    k.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	g.faces[k] = f
	return f, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
