// Package ecs provides ECS adapters for pixeloid.
package ecs

import (
	"github.com/phanxgames/pixeloid"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditorEventType is the Donburi event type for pixeloid editor events.
// Subscribe to this in your ECS systems to react to camera and object changes.
var EditorEventType = events.NewEventType[pixeloid.EditorEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Editor events are published to EditorEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) pixeloid.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event pixeloid.EditorEvent) {
	EditorEventType.Publish(s.world, event)
}
