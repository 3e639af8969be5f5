package ecs

import (
	"github.com/phanxgames/pressable"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for pressable interaction
// events. Subscribe to this in your ECS systems to receive gesture events.
var InteractionEventType = events.NewEventType[pressable.InteractionEvent]()

// DonburiSink publishes interaction events into a Donburi world. It serves as
// a Pressable's EntityStore, or as a plain EventSink on a bare Gesture, in
// which case EntityID and Name are stamped onto every event.
type DonburiSink struct {
	EntityID uint32
	Name     string

	world donburi.World
}

// NewDonburiSink creates a sink backed by a Donburi world. Events are queued
// on InteractionEventType and delivered by events.ProcessAllEvents or
// InteractionEventType.ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world}
}

// EmitEvent implements pressable.EntityStore.
func (s *DonburiSink) EmitEvent(event pressable.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Emit implements pressable.EventSink.
func (s *DonburiSink) Emit(e pressable.Event) {
	s.EmitEvent(pressable.InteractionEvent{Event: e, EntityID: s.EntityID, Name: s.Name})
}
