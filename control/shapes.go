package control

import (
	"sort"

	"termchess-local/types"
)

// ShapeColor is the color of an annotation.
type ShapeColor byte

const (
	ShapeGreen  ShapeColor = 'G'
	ShapeRed    ShapeColor = 'R'
	ShapeBlue   ShapeColor = 'B'
	ShapeYellow ShapeColor = 'Y'
)

// shapeColor picks the annotation color from the held modifiers.
func shapeColor(mod Modifier) ShapeColor {
	switch {
	case mod&ModShift != 0 && mod&ModCtrl != 0:
		return ShapeYellow
	case mod&ModShift != 0:
		return ShapeRed
	case mod&ModCtrl != 0:
		return ShapeBlue
	}
	return ShapeGreen
}

// Circle marks a square.
type Circle struct {
	At    types.Cord
	Color ShapeColor
}

// Arrow connects two squares.
type Arrow struct {
	From  types.Cord
	To    types.Cord
	Color ShapeColor
}

type arrowKey struct {
	from, to types.Cord
}

// Shapes is the freehand annotation layer: committed circles and arrows
// plus the shape being drawn with the right button.
type Shapes struct {
	circles map[types.Cord]ShapeColor
	arrows  map[arrowKey]ShapeColor

	preCircle *Circle
	preArrow  *Arrow
	from      *Circle
}

func newShapes() Shapes {
	return Shapes{
		circles: make(map[types.Cord]ShapeColor),
		arrows:  make(map[arrowKey]ShapeColor),
	}
}

// Circles returns the committed circles ordered by square.
func (s *Shapes) Circles() []Circle {
	out := make([]Circle, 0, len(s.circles))
	for at, col := range s.circles {
		out = append(out, Circle{At: at, Color: col})
	}
	sort.Slice(out, func(i, j int) bool {
		return lessCord(out[i].At, out[j].At)
	})
	return out
}

// Arrows returns the committed arrows ordered by endpoints.
func (s *Shapes) Arrows() []Arrow {
	out := make([]Arrow, 0, len(s.arrows))
	for k, col := range s.arrows {
		out = append(out, Arrow{From: k.from, To: k.to, Color: col})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return lessCord(out[i].From, out[j].From)
		}
		return lessCord(out[i].To, out[j].To)
	})
	return out
}

// Pending returns the shape being drawn, if any.
func (s *Shapes) Pending() (*Circle, *Arrow) {
	return s.preCircle, s.preArrow
}

func (s *Shapes) toggleCircle(ci Circle) {
	if _, ok := s.circles[ci.At]; ok {
		delete(s.circles, ci.At)
		return
	}
	s.circles[ci.At] = ci.Color
}

func (s *Shapes) toggleArrow(a Arrow) {
	k := arrowKey{a.From, a.To}
	if _, ok := s.arrows[k]; ok {
		delete(s.arrows, k)
		return
	}
	s.arrows[k] = a.Color
}

func lessCord(a, b types.Cord) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// Shapes returns the annotation layer.
func (c *Controller) Shapes() *Shapes {
	return &c.shapes
}

// gridCord maps a point to a cord on the playing grid; annotations never
// cover holdings.
func (c *Controller) gridCord(x, y float64) (types.Cord, bool) {
	cord, ok := c.PointToCord(x, y)
	if !ok {
		return types.Cord{}, false
	}
	v := c.variant()
	if v.InHoldingRange(cord) || cord.Y < 0 || cord.Y >= v.Ranks {
		return types.Cord{}, false
	}
	return cord, true
}

func (c *Controller) shapePress(x, y float64, mod Modifier) {
	if c.state.Locked() && c.premove.Clear() {
		c.refresh()
	}
	cord, ok := c.gridCord(x, y)
	if !ok {
		return
	}
	start := Circle{At: cord, Color: shapeColor(mod)}
	c.shapes.from = &start
	pre := start
	c.shapes.preCircle = &pre
	c.shapes.preArrow = nil
	c.refresh()
}

func (c *Controller) shapeMotion(x, y float64) {
	s := &c.shapes
	if s.from == nil {
		return
	}
	to, ok := c.gridCord(x, y)
	if !ok {
		return
	}
	if to != s.from.At {
		if s.preArrow == nil || s.preArrow.To != to {
			s.preArrow = &Arrow{From: s.from.At, To: to, Color: s.from.Color}
			s.preCircle = nil
			c.refresh()
		}
		return
	}
	if s.preCircle == nil {
		s.preArrow = nil
		back := *s.from
		s.preCircle = &back
		c.refresh()
	}
}

func (c *Controller) shapeRelease(x, y float64) {
	s := &c.shapes
	defer func() {
		s.from = nil
		s.preCircle = nil
		s.preArrow = nil
		c.refresh()
	}()
	cord, ok := c.gridCord(x, y)
	if !ok {
		return
	}
	if s.preCircle != nil && s.preCircle.At == cord {
		s.toggleCircle(*s.preCircle)
		c.listener.ShapesChanged()
	}
	if s.preArrow != nil {
		s.toggleArrow(*s.preArrow)
		c.listener.ShapesChanged()
	}
}

// clearShapes removes every annotation, as done by any left press.
func (c *Controller) clearShapes() {
	s := &c.shapes
	changed := len(s.circles) > 0 || len(s.arrows) > 0
	pending := s.preCircle != nil || s.preArrow != nil
	if !changed && !pending {
		return
	}
	s.circles = make(map[types.Cord]ShapeColor)
	s.arrows = make(map[arrowKey]ShapeColor)
	s.preCircle = nil
	s.preArrow = nil
	c.refresh()
	if changed {
		c.listener.ShapesChanged()
	}
}
