// Package ecs provides ECS adapters for pressable's interaction events.
//
// The primary adapter is [NewDonburiSink], which bridges gesture events
// (pressIn, pressOut, press, longPress, pressMove, hoverIn, hoverOut) into a
// [Donburi] world as typed events. Subscribe to [InteractionEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	button.SetEntityStore(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
