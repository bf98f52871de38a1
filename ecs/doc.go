// Package ecs bridges a sprig Runtime into a [Donburi] world.
//
// [Bridge] mirrors scene nodes as entities carrying a [NodeRef] component and
// publishes a [FrameEvent] on every Runtime frame, so ECS systems can run in
// step with the scene tree:
//
//	world := donburi.NewWorld()
//	bridge := ecs.NewBridge(world)
//	bridge.Attach(rt)
//	ecs.FrameEventType.Subscribe(world, func(w donburi.World, e ecs.FrameEvent) {
//		// per-frame ECS work
//	})
//
// Entities whose node is disposed are removed at the start of the next frame.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
