// Package geom holds the small set of 2D value types shared by the funnel
// packages: rectangles, label boxes, points, and segment trapezoids.
//
// All coordinates are in user units (pixels in SVG) with y growing downward.
package geom

// Point is a location in the drawing area.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle stored as its two corners,
// matching the [x0, y0, x1, y1] layout used by the funnel widget.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Box is a label bounding box: top-left corner plus size.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Contains reports whether (x, y) lies inside the box. Edges are inclusive.
// An empty box contains nothing.
func (b Box) Contains(x, y float64) bool {
	if b.Empty() {
		return false
	}
	return x >= b.X && x <= b.Right() && y >= b.Y && y <= b.Bottom()
}

// Coords is the flat corner list of a funnel segment trapezoid:
// top-left, top-right, bottom-right, bottom-left as [x0,y0,x1,y1,x2,y2,x3,y3].
type Coords [8]float64

// Left returns the x coordinate of the top-left corner.
func (c Coords) Left() float64 { return c[0] }

// Top returns the y coordinate of the top-left corner.
func (c Coords) Top() float64 { return c[1] }

// Right returns the x coordinate of the top-right corner.
func (c Coords) Right() float64 { return c[2] }

// RightY returns the y coordinate of the top-right corner.
func (c Coords) RightY() float64 { return c[3] }

// Bottom returns the y coordinate of the last corner.
func (c Coords) Bottom() float64 { return c[7] }

// Points returns the four corners in drawing order.
func (c Coords) Points() [4]Point {
	return [4]Point{{c[0], c[1]}, {c[2], c[3]}, {c[4], c[5]}, {c[6], c[7]}}
}

// Contains reports whether (x, y) lies inside the quadrilateral. Points on
// the boundary may go either way.
func (c Coords) Contains(x, y float64) bool {
	pts := c.Points()
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
