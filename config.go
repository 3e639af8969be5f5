package pressable

import "time"

// Default delays.
const (
	DefaultLongPressDelay = 500 * time.Millisecond
	DefaultPressInDelay   = 0
)

// GestureConfig holds the inputs the gesture engine reads on every event.
// Values are always clamped: negative delays and offsets become zero.
type GestureConfig struct {
	// PressInDelay debounces pressIn after a pointer down. Zero emits
	// pressIn immediately.
	PressInDelay time.Duration
	// LongPressDelay is measured from pressIn, so with a non-zero
	// PressInDelay the total latency from the down is the sum of both.
	LongPressDelay time.Duration
	// HitSlop grows the touch-accepting area for pointer downs.
	HitSlop Insets
	// PressRetentionOffset grows the area a pressed pointer may move in
	// without cancelling the press.
	PressRetentionOffset float64

	Disabled bool
	// TestOnlyPressed forces the pressed state for tests and previews.
	// Pointer input is ignored while it is set.
	TestOnlyPressed bool
	// SoundOnPress requests the host's click feedback on every press.
	SoundOnPress bool
	// SwallowEarlyRelease drops a tap released before PressInDelay elapsed
	// instead of completing it with pressIn, pressOut and press.
	SwallowEarlyRelease bool
}

// DefaultConfig returns the configuration a freshly mounted widget uses.
func DefaultConfig() GestureConfig {
	return GestureConfig{
		PressInDelay:   DefaultPressInDelay,
		LongPressDelay: DefaultLongPressDelay,
		SoundOnPress:   true,
	}
}

// gated reports whether pointer input is currently ignored.
func (c GestureConfig) gated() bool {
	return c.Disabled || c.TestOnlyPressed
}

// ConfigUpdate is a partial configuration delivered by the host. Nil fields
// keep their current value.
type ConfigUpdate struct {
	PressInDelay   *time.Duration
	LongPressDelay *time.Duration
	HitSlop        *Insets
	// PressRetention accepts four offsets; they are reduced to their
	// maximum since retention is symmetric.
	PressRetention      *Insets
	Disabled            *bool
	TestOnlyPressed     *bool
	SoundOnPress        *bool
	SwallowEarlyRelease *bool
}

// Apply returns c with u merged in and clamped.
func (c GestureConfig) Apply(u ConfigUpdate) GestureConfig {
	if u.PressInDelay != nil {
		c.PressInDelay = *u.PressInDelay
	}
	if u.LongPressDelay != nil {
		c.LongPressDelay = *u.LongPressDelay
	}
	if u.HitSlop != nil {
		c.HitSlop = *u.HitSlop
	}
	if u.PressRetention != nil {
		c.PressRetentionOffset = u.PressRetention.Clamp().Max()
	}
	if u.Disabled != nil {
		c.Disabled = *u.Disabled
	}
	if u.TestOnlyPressed != nil {
		c.TestOnlyPressed = *u.TestOnlyPressed
	}
	if u.SoundOnPress != nil {
		c.SoundOnPress = *u.SoundOnPress
	}
	if u.SwallowEarlyRelease != nil {
		c.SwallowEarlyRelease = *u.SwallowEarlyRelease
	}
	return c.clamp()
}

func (c GestureConfig) clamp() GestureConfig {
	c.PressInDelay = max(c.PressInDelay, 0)
	c.LongPressDelay = max(c.LongPressDelay, 0)
	c.HitSlop = c.HitSlop.Clamp()
	c.PressRetentionOffset = max(c.PressRetentionOffset, 0)
	return c
}

// Merge overlays the non-nil fields of o onto u.
func (u ConfigUpdate) Merge(o ConfigUpdate) ConfigUpdate {
	if o.PressInDelay != nil {
		u.PressInDelay = o.PressInDelay
	}
	if o.LongPressDelay != nil {
		u.LongPressDelay = o.LongPressDelay
	}
	if o.HitSlop != nil {
		u.HitSlop = o.HitSlop
	}
	if o.PressRetention != nil {
		u.PressRetention = o.PressRetention
	}
	if o.Disabled != nil {
		u.Disabled = o.Disabled
	}
	if o.TestOnlyPressed != nil {
		u.TestOnlyPressed = o.TestOnlyPressed
	}
	if o.SoundOnPress != nil {
		u.SoundOnPress = o.SoundOnPress
	}
	if o.SwallowEarlyRelease != nil {
		u.SwallowEarlyRelease = o.SwallowEarlyRelease
	}
	return u
}

// Full returns an update that replaces every field with c's value.
func (c GestureConfig) Full() ConfigUpdate {
	retention := UniformInsets(c.PressRetentionOffset)
	return ConfigUpdate{
		PressInDelay:        &c.PressInDelay,
		LongPressDelay:      &c.LongPressDelay,
		HitSlop:             &c.HitSlop,
		PressRetention:      &retention,
		Disabled:            &c.Disabled,
		TestOnlyPressed:     &c.TestOnlyPressed,
		SoundOnPress:        &c.SoundOnPress,
		SwallowEarlyRelease: &c.SwallowEarlyRelease,
	}
}

// Ptr returns a pointer to v. It keeps ConfigUpdate literals short:
//
//	p.SetConfig(pressable.ConfigUpdate{Disabled: pressable.Ptr(true)})
func Ptr[T any](v T) *T {
	return &v
}
