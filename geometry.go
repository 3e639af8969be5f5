package pressable

// Size is a widget's laid-out width and height.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Local converts page coordinates to coordinates relative to the rectangle's
// origin.
func (r Rect) Local(px, py float64) (float64, float64) {
	return px - r.X, py - r.Y
}

// Insets are per-edge offsets that grow a region outward from a widget's
// bounds. They describe both hit slop and press retention.
type Insets struct {
	Left, Top, Right, Bottom float64
}

// UniformInsets returns insets with v on every edge.
func UniformInsets(v float64) Insets {
	return Insets{Left: v, Top: v, Right: v, Bottom: v}
}

// Clamp returns a copy with negative edges raised to zero.
func (in Insets) Clamp() Insets {
	return Insets{
		Left:   max(in.Left, 0),
		Top:    max(in.Top, 0),
		Right:  max(in.Right, 0),
		Bottom: max(in.Bottom, 0),
	}
}

// Max returns the largest edge. Press retention is symmetric, so four
// offsets are reduced to this value.
func (in Insets) Max() float64 {
	return max(in.Left, in.Top, in.Right, in.Bottom)
}

// IsZero reports whether every edge is zero.
func (in Insets) IsZero() bool {
	return in == Insets{}
}

// Expand returns the local-space rectangle covering s grown by in.
func (s Size) Expand(in Insets) Rect {
	return Rect{
		X:      -in.Left,
		Y:      -in.Top,
		Width:  s.Width + in.Left + in.Right,
		Height: s.Height + in.Top + in.Bottom,
	}
}

// WithinHitSlop reports whether the local point (x, y) lies in the widget
// bounds expanded by slop. Zero slop is a plain bounds check.
func WithinHitSlop(x, y float64, s Size, slop Insets) bool {
	return s.Expand(slop).Contains(x, y)
}

// WithinRetention reports whether the local point (x, y) lies in the widget
// bounds expanded by offset on every edge.
func WithinRetention(x, y float64, s Size, offset float64) bool {
	return s.Expand(UniformInsets(offset)).Contains(x, y)
}

// WithinBounds reports whether the local point (x, y) lies in the raw widget
// bounds.
func WithinBounds(x, y float64, s Size) bool {
	return x >= 0 && x <= s.Width && y >= 0 && y <= s.Height
}
