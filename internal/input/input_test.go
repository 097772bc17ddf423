package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestDigitKeysToggleLights(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.Key1, glfw.Press)
	im.HandleKeyEvent(glfw.Key0, glfw.Press)

	assert.True(t, im.JustPressed(ActionToggleLight1))
	assert.True(t, im.JustPressed(ActionToggleLight10))
	assert.False(t, im.JustPressed(ActionToggleLight2))
	assert.Len(t, LightToggles, 10)
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []glfw.Key{glfw.KeyEscape, glfw.KeyX} {
		im := NewInputManager()
		im.HandleKeyEvent(key, glfw.Press)
		assert.True(t, im.JustPressed(ActionQuit))
	}
}

func TestTriggeredCountsRepeats(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	im.HandleKeyEvent(glfw.KeyW, glfw.Repeat)
	im.HandleKeyEvent(glfw.KeyW, glfw.Repeat)
	assert.Equal(t, 3, im.Triggered(ActionMoveForward))
	assert.True(t, im.IsActive(ActionMoveForward))

	im.PostUpdate()
	assert.Equal(t, 0, im.Triggered(ActionMoveForward))
	assert.True(t, im.IsActive(ActionMoveForward), "held keys stay active")

	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	assert.True(t, im.JustReleased(ActionMoveForward))
	assert.False(t, im.IsActive(ActionMoveForward))
}

func TestMouseButtons(t *testing.T) {
	im := NewInputManager()
	im.HandleMouseButtonEvent(glfw.MouseButtonRight, glfw.Press)
	assert.True(t, im.IsActive(ActionMouseRight))
	assert.False(t, im.IsActive(ActionMouseLeft))
}

func TestUnboundAndInvalid(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyQ, glfw.Press)
	for a := Action(0); a < ActionCount; a++ {
		assert.False(t, im.IsActive(a))
	}
	assert.Equal(t, 0, im.Triggered(ActionCount))
	assert.False(t, im.JustPressed(-1))
}
