package app

import (
	"testing"

	"deferred-shading/internal/graphics"
	"deferred-shading/internal/input"
	"deferred-shading/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newControlFixture(t *testing.T) (*input.InputManager, *graphics.OrbitCamera, *scene.Store) {
	t.Helper()
	materials := append(scene.DefaultMaterials(), scene.Material{Diffuse: mgl32.Vec3{1, 0, 0}, Shininess: 20})
	store, err := scene.NewStore(materials, scene.DefaultLights())
	require.NoError(t, err)
	return input.NewInputManager(), graphics.NewOrbitCamera(512, 512, 0, 1, 10), store
}

func TestLightKeysToggle(t *testing.T) {
	im, cam, store := newControlFixture(t)
	im.HandleKeyEvent(glfw.Key3, glfw.Press)
	im.HandleKeyEvent(glfw.Key0, glfw.Press)

	cmd := ApplyControls(im, cam, store)
	assert.Equal(t, []int{2, 9}, cmd.ToggledLights)
	lights := store.Lights()
	assert.False(t, lights[2].Enabled)
	assert.False(t, lights[9].Enabled)
	assert.True(t, lights[0].Enabled)

	im.PostUpdate()
	im.HandleKeyEvent(glfw.Key3, glfw.Release)
	im.HandleKeyEvent(glfw.Key3, glfw.Press)
	ApplyControls(im, cam, store)
	assert.True(t, store.Lights()[2].Enabled)
}

func TestLightKeysBeyondConfiguredLights(t *testing.T) {
	im, cam, _ := newControlFixture(t)
	store, err := scene.NewStore(scene.DefaultMaterials(), scene.DefaultLights()[:2])
	require.NoError(t, err)

	im.HandleKeyEvent(glfw.Key5, glfw.Press)
	cmd := ApplyControls(im, cam, store)
	assert.Empty(t, cmd.ToggledLights)
}

func TestMaterialKeyCycles(t *testing.T) {
	im, cam, store := newControlFixture(t)
	im.HandleKeyEvent(glfw.KeyM, glfw.Press)

	cmd := ApplyControls(im, cam, store)
	assert.True(t, cmd.MaterialChange)
	assert.Equal(t, 1, store.ActiveMaterialIndex())
}

func TestMovementCountsRepeats(t *testing.T) {
	im, cam, store := newControlFixture(t)
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	im.HandleKeyEvent(glfw.KeyW, glfw.Repeat)
	im.HandleKeyEvent(glfw.KeyD, glfw.Press)

	ApplyControls(im, cam, store)
	assert.InDelta(t, 9.5, cam.Radius, 1e-5)
	assert.InDelta(t, 0.25, cam.Phi, 1e-5)

	im.PostUpdate()
	ApplyControls(im, cam, store)
	assert.InDelta(t, 9.5, cam.Radius, 1e-5, "held keys without repeats do not move")
}

func TestProjectionKeys(t *testing.T) {
	im, cam, store := newControlFixture(t)
	im.HandleKeyEvent(glfw.KeyZ, glfw.Press)
	im.HandleKeyEvent(glfw.KeyR, glfw.Press)
	im.HandleKeyEvent(glfw.KeyG, glfw.Press)

	ApplyControls(im, cam, store)
	assert.InDelta(t, 45.1, cam.FOV, 1e-4)
	assert.InDelta(t, 0.2, cam.NearPlane, 1e-4)
	assert.InDelta(t, 999.9, cam.FarPlane, 1e-3)

	im.PostUpdate()
	ApplyControls(im, cam, store)
	assert.InDelta(t, 45.1, cam.FOV, 1e-4, "no keys, no change")
}

func TestQuitAndReload(t *testing.T) {
	im, cam, store := newControlFixture(t)
	cmd := ApplyControls(im, cam, store)
	assert.False(t, cmd.Quit)
	assert.False(t, cmd.ReloadShaders)

	im.HandleKeyEvent(glfw.KeyX, glfw.Press)
	im.HandleKeyEvent(glfw.KeyF5, glfw.Press)
	cmd = ApplyControls(im, cam, store)
	assert.True(t, cmd.Quit)
	assert.True(t, cmd.ReloadShaders)
}

func TestDragButton(t *testing.T) {
	assert.Equal(t, graphics.LeftButton, dragButton(glfw.MouseButtonLeft, glfw.Press))
	assert.Equal(t, graphics.RightButton, dragButton(glfw.MouseButtonRight, glfw.Press))
	assert.Equal(t, graphics.NoButton, dragButton(glfw.MouseButtonLeft, glfw.Release))
	assert.Equal(t, graphics.NoButton, dragButton(glfw.MouseButtonMiddle, glfw.Press))
}
