package pressable

import "time"

// syntheticPointerEvent represents a single injected pointer or hover event
// in widget-local coordinates.
type syntheticPointerEvent struct {
	x, y       float64
	noPosition bool
	hover      bool
	action     PointerAction
	hoverKind  HoverAction
}

// InjectDown queues a pointer down at the given local coordinates. The event
// is consumed on the next Update.
func (p *Pressable) InjectDown(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, action: PointerDown})
}

// InjectMove queues a pointer move with the pointer held down.
func (p *Pressable) InjectMove(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, action: PointerMove})
}

// InjectUp queues a pointer up at the given local coordinates.
func (p *Pressable) InjectUp(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, action: PointerUp})
}

// InjectCancel queues a positionless pointer cancel.
func (p *Pressable) InjectCancel() {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{noPosition: true, action: PointerCancel})
}

// InjectHoverIn queues a hover enter at the given local coordinates.
func (p *Pressable) InjectHoverIn(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, hover: true, hoverKind: HoverEnter})
}

// InjectHoverOut queues a hover exit at the given local coordinates.
func (p *Pressable) InjectHoverOut(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, hover: true, hoverKind: HoverExit})
}

// InjectTap is a convenience that queues a down followed by an up at the same
// coordinates. Consumes two frames.
func (p *Pressable) InjectTap(x, y float64) {
	p.InjectDown(x, y)
	p.InjectUp(x, y)
}

// InjectDrag queues a full drag sequence: down at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and up at (toX, toY).
// The total sequence consumes `frames` frames. Minimum frames is 2.
func (p *Pressable) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p.InjectDown(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectUp(toX, toY)
}

// InjectPending returns the number of queued injected events.
func (p *Pressable) InjectPending() int {
	return len(p.injectQueue)
}

// Update pops one injected event, stamps it with now and feeds it to the
// gesture. It reports whether an event was consumed, in which case the host
// should skip real input for this frame.
func (p *Pressable) Update(now time.Duration) bool {
	if len(p.injectQueue) == 0 {
		return false
	}
	evt := p.injectQueue[0]
	copy(p.injectQueue, p.injectQueue[1:])
	p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]

	s := PointerSample{X: evt.x, Y: evt.y, Time: now, NoPosition: evt.noPosition}
	if evt.hover {
		p.HandleHover(evt.hoverKind, s)
	} else {
		p.HandlePointer(evt.action, s)
	}
	return true
}
