package app

import (
	"deferred-shading/internal/graphics"
	"deferred-shading/internal/input"
	"deferred-shading/internal/scene"
)

// Controls is the per-frame view of the input state
type Controls interface {
	JustPressed(action input.Action) bool
	Triggered(action input.Action) int
}

// Commands are the frame-level requests produced by the controls
type Commands struct {
	Quit           bool
	ReloadShaders  bool
	ToggledLights  []int
	MaterialChange bool
}

var moves = [...]struct {
	action input.Action
	dir    graphics.MoveDirection
}{
	{input.ActionMoveForward, graphics.MoveForward},
	{input.ActionMoveBackward, graphics.MoveBackward},
	{input.ActionMoveLeft, graphics.MoveLeft},
	{input.ActionMoveRight, graphics.MoveRight},
}

// ApplyControls mutates the camera and the scene store for this frame's key
// presses and returns what is left for the frame loop to do
func ApplyControls(in Controls, cam *graphics.OrbitCamera, store *scene.Store) Commands {
	var cmd Commands

	lights := len(store.Lights())
	for i, action := range input.LightToggles {
		if i < lights && in.JustPressed(action) {
			store.ToggleLight(i)
			cmd.ToggledLights = append(cmd.ToggledLights, i)
		}
	}
	if in.JustPressed(input.ActionCycleMaterial) {
		store.CycleMaterial()
		cmd.MaterialChange = true
	}

	for _, m := range moves {
		for n := in.Triggered(m.action); n > 0; n-- {
			cam.Move(m.dir)
		}
	}
	cam.AdjustFOV(float32(in.Triggered(input.ActionWidenFOV) - in.Triggered(input.ActionNarrowFOV)))
	cam.AdjustNear(float32(in.Triggered(input.ActionNearFarther) - in.Triggered(input.ActionNearCloser)))
	cam.AdjustFar(float32(in.Triggered(input.ActionFarFarther) - in.Triggered(input.ActionFarCloser)))

	cmd.ReloadShaders = in.JustPressed(input.ActionReloadShaders)
	cmd.Quit = in.JustPressed(input.ActionQuit)
	return cmd
}
