package control

import (
	"math"

	"termchess-local/types"
)

// Matrix is a 2D affine transform: x' = XX*x + XY*y + X0, y' = YX*x + YY*y + Y0.
type Matrix struct {
	XX, YX, XY, YY, X0, Y0 float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{XX: 1, YY: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{XX: 1, YY: 1, X0: tx, Y0: ty}
}

// Scale returns a scaling by (sx, sy).
func Scale(sx, sy float64) Matrix {
	return Matrix{XX: sx, YY: sy}
}

// Rotate returns a rotation by rad radians.
func Rotate(rad float64) Matrix {
	s, c := math.Sincos(rad)
	return Matrix{XX: c, YX: s, XY: -s, YY: c}
}

// Multiply returns the transform that applies m first and then n.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		XX: m.XX*n.XX + m.YX*n.XY,
		YX: m.XX*n.YX + m.YX*n.YY,
		XY: m.XY*n.XX + m.YY*n.XY,
		YY: m.XY*n.YX + m.YY*n.YY,
		X0: m.X0*n.XX + m.Y0*n.XY + n.X0,
		Y0: m.X0*n.YX + m.Y0*n.YY + n.Y0,
	}
}

// TransformPoint maps (x, y) through m.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.XX*x + m.XY*y + m.X0, m.YX*x + m.YY*y + m.Y0
}

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.XX*m.YY - m.YX*m.XY
	if det == 0 {
		return Matrix{}, false
	}
	inv := Matrix{
		XX: m.YY / det,
		YX: -m.YX / det,
		XY: -m.XY / det,
		YY: m.XX / det,
	}
	inv.X0 = -(inv.XX*m.X0 + inv.XY*m.Y0)
	inv.Y0 = -(inv.YX*m.X0 + inv.YY*m.Y0)
	return inv, true
}

// Geometry describes where the board is drawn. Matrix maps board drawing
// space to widget space; inside drawing space the top-left corner of the
// playing grid is (SquareX, SquareY) and each square is Side units wide.
// Width and Height bound the widget.
type Geometry struct {
	Matrix  Matrix
	SquareX float64
	SquareY float64
	Side    float64
	Width   float64
	Height  float64
}

// mapper converts widget points to board coordinates.
type mapper struct {
	geo Geometry
	inv Matrix
	ok  bool
}

func newMapper(g Geometry) mapper {
	inv, ok := g.Matrix.Invert()
	return mapper{geo: g, inv: inv, ok: ok && g.Side > 0}
}

// transPoint returns the continuous board-space point for a widget point:
// x grows toward higher files and y toward higher ranks.
func (m mapper) transPoint(v *types.Variant, x, y float64) (float64, float64, bool) {
	if !m.ok {
		return 0, 0, false
	}
	x, y = m.inv.TransformPoint(x, y)
	x = (x - m.geo.SquareX) / m.geo.Side
	y = (y - m.geo.SquareY) / m.geo.Side
	return x, float64(v.Ranks) - y, true
}

// pointToCord floors a widget point to a cord. Files left of the grid are
// biased one unit further negative so holding slots line up with their
// drawn position.
func (m mapper) pointToCord(v *types.Variant, x, y float64) (types.Cord, bool) {
	bx, by, ok := m.transPoint(v, x, y)
	if !ok || math.IsNaN(bx) || math.IsNaN(by) {
		return types.Cord{}, false
	}
	file := int(bx)
	if bx < 0 {
		file--
	}
	c := types.Cord{X: file, Y: int(math.Floor(by))}
	if !v.Addressable(c) {
		return types.Cord{}, false
	}
	return c, true
}

// inside reports whether a widget point lies within the widget bounds.
func (m mapper) inside(x, y float64) bool {
	return x >= 0 && x < m.geo.Width && y >= 0 && y < m.geo.Height
}
