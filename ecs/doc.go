// Package ecs provides ECS adapters for lumina's UI event stream.
//
// The primary adapter is [NewDonburiStore], which bridges lumina UI events
// (handled input, focus changes, panel docking, tab activation, split
// resizing) into a [Donburi] world as typed events. Subscribe to
// [UIEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	framework.SetEventStore(store)
//	docking.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
