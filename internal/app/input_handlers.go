package app

import (
	"deferred-shading/internal/graphics"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// dragButton maps a GLFW mouse event to the camera drag mode it starts
func dragButton(button glfw.MouseButton, action glfw.Action) graphics.MouseButton {
	if action != glfw.Press {
		return graphics.NoButton
	}
	switch button {
	case glfw.MouseButtonLeft:
		return graphics.LeftButton
	case glfw.MouseButtonRight:
		return graphics.RightButton
	}
	return graphics.NoButton
}

func SetupInputHandlers(app *App) {
	window := app.window
	im := app.inputManager

	im.SetKeyCallback(window)

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
		x, y := w.GetCursorPos()
		app.camera.SetButton(dragButton(button, action), x, y)
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		app.camera.MouseMoved(xpos, ypos)
	})

	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		if fbWidth == 0 || fbHeight == 0 {
			return // minimized
		}
		app.camera.SetViewport(fbWidth, fbHeight)
		if err := app.pipeline.Resize(fbWidth, fbHeight); err != nil {
			app.logger.Error("resize", "width", fbWidth, "height", fbHeight, "err", err)
		}
	})

	window.SetRefreshCallback(func(w *glfw.Window) {
		app.RefreshRender()
	})
}
