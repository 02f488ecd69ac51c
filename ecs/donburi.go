// Package ecs provides ECS adapters for lumina.
package ecs

import (
	"github.com/lumina-engine/lumina"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// UIEventType is the Donburi event type for lumina UI events.
// Subscribe to this in your ECS systems to receive input, focus and docking
// events.
var UIEventType = events.NewEventType[lumina.UIEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Events are published to UIEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) lumina.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event lumina.UIEvent) {
	UIEventType.Publish(s.world, event)
}

// SubscribeKind subscribes fn to events of a single kind.
func SubscribeKind(world donburi.World, kind lumina.UIEventKind, fn func(donburi.World, lumina.UIEvent)) {
	UIEventType.Subscribe(world, func(w donburi.World, e lumina.UIEvent) {
		if e.Kind == kind {
			fn(w, e)
		}
	})
}
