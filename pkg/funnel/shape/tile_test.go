package shape

import (
	"testing"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
)

func TestTileEmpty(t *testing.T) {
	if got := Tile(nil, geom.Rect{X1: 100, Y1: 100}, Options{}); got != nil {
		t.Errorf("Tile(nil) = %v, want nil", got)
	}
}

func TestTileWidths(t *testing.T) {
	rect := geom.Rect{X0: 0, Y0: 0, X1: 200, Y1: 300}
	got := Tile([]float64{100, 50, 25}, rect, Options{})

	want := []geom.Coords{
		{0, 0, 200, 0, 150, 100, 50, 100},
		{50, 100, 150, 100, 125, 200, 75, 200},
		{75, 200, 125, 200, 125, 300, 75, 300},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Tile()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTileGapAndMinWidth(t *testing.T) {
	rect := geom.Rect{X0: 10, Y0: 10, X1: 110, Y1: 120}
	got := Tile([]float64{10, 0}, rect, Options{Gap: 10, MinWidth: 0.2})

	if h := got[0][7] - got[0][1]; h != 50 {
		t.Errorf("segment height = %v, want 50", h)
	}
	if y := got[1][1]; y != 70 {
		t.Errorf("second segment top = %v, want 70", y)
	}
	if w := got[1][2] - got[1][0]; w != 20 {
		t.Errorf("zero-value segment width = %v, want 20", w)
	}
}

func TestTileNonPositiveValues(t *testing.T) {
	got := Tile([]float64{0, -5}, geom.Rect{X1: 100, Y1: 100}, Options{})
	for i, c := range got {
		if c.Right() != c.Left() {
			t.Errorf("segment %d width = %v, want 0", i, c.Right()-c.Left())
		}
	}
}

func TestTileInverted(t *testing.T) {
	rect := geom.Rect{X0: 0, Y0: 0, X1: 200, Y1: 300}
	normal := Tile([]float64{100, 50, 25}, rect, Options{})
	inverted := Tile([]float64{100, 50, 25}, rect, Options{Inverted: true})

	for i := range normal {
		for j := 0; j < 8; j += 2 {
			if inverted[i][j] != normal[i][j] {
				t.Errorf("segment %d x%d = %v, want %v", i, j/2, inverted[i][j], normal[i][j])
			}
			if want := 300 - normal[i][j+1]; inverted[i][j+1] != want {
				t.Errorf("segment %d y%d = %v, want %v", i, j/2, inverted[i][j+1], want)
			}
		}
	}
	// The widest edge now sits at the bottom of the area.
	if inverted[0].RightY() != 300 {
		t.Errorf("first segment top edge y = %v, want 300", inverted[0].RightY())
	}
}
