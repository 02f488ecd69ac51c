// Package lumina is the UI core of the Lumina editor: a retained widget
// framework with a dockable panel layout, rendered through [Ebitengine].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	f := lumina.NewFramework()
//	dock := lumina.NewDockingManager()
//	f.AddRoot(dock)
//	lumina.Run(f, lumina.RunConfig{
//		Title: "My Editor", Width: 1280, Height: 800,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Framework.Frame] with an [EbitenRenderer] (or any [Renderer]) from Draw.
//
// # Frames
//
// [Framework.Frame] runs three passes. Layout resolves every widget's
// [LayoutConstraints] top-down through a [LayoutCache]. Input dispatches
// the frame's events against the bounds computed in the previous frame, so
// hit-testing always matches what the user saw. Render draws depth-first and
// is skipped entirely when nothing reported a change.
//
// Widgets must not mutate the widget tree while handling input. Use
// [Framework.Defer]; [Framework.Remove] defers itself automatically during
// dispatch.
//
// # Docking
//
// [DockingManager] owns a binary tree of [LayoutNode]s: splits divide space
// by a ratio, tab groups hold panels, and empty nodes mark free space. Panels
// are registered by [PanelID] and referenced by id from the tree. Panels can
// be docked into tab groups, beside existing groups, or at a screen
// position; tabs can be dragged between groups with live drop-zone
// highlighting. Layouts are saved and loaded as TOML, YAML or JSON
// ([DockingManager.SaveLayout]) and can be hot-reloaded with [WatchLayout].
// Every mutation is recorded for [DockingManager.Undo].
//
// # Testing
//
// Input can be injected with [Framework.InjectClick], [Framework.InjectDrag]
// and friends, or scripted from JSON with [LoadScript]. Renderers that
// implement [Screenshotter] capture labeled PNGs on request.
//
// # ECS
//
// Set an [EventStore] to forward UI events; the lumina/ecs package provides
// a [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package lumina
