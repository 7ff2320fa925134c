// Package ecs provides ECS adapters for pixeloid's editor event system.
//
// The primary adapter is [NewDonburiSink], which bridges pixeloid editor
// events (camera moves, zoom changes, object edits and deletions) into a
// [Donburi] world as typed events. Subscribe to [EditorEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
