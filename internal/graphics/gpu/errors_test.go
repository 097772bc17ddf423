package gpu_test

import (
	"bytes"
	"log/slog"
	"testing"

	"deferred-shading/internal/graphics/gpu"
	"deferred-shading/internal/graphics/gpu/gputest"

	"github.com/stretchr/testify/assert"
)

func TestDrainErrorsLogsEveryPendingError(t *testing.T) {
	dev := gputest.New()
	dev.PendingErrors = []uint32{gpu.ErrInvalidEnum, gpu.ErrInvalidFramebufferOperation, 0x9999}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	n := gpu.DrainErrors(dev, logger, "init")
	assert.Equal(t, 3, n)
	assert.Contains(t, buf.String(), "GL_INVALID_ENUM")
	assert.Contains(t, buf.String(), "GL_INVALID_FRAMEBUFFER_OPERATION")
	assert.Contains(t, buf.String(), "unknown error (0x9999)")
	assert.Equal(t, 0, gpu.DrainErrors(dev, logger, "again"))
}

func TestDrainErrorsIsBounded(t *testing.T) {
	dev := gputest.New()
	for i := 0; i < 500; i++ {
		dev.PendingErrors = append(dev.PendingErrors, gpu.ErrOutOfMemory)
	}
	assert.Equal(t, 64, gpu.DrainErrors(dev, nil, "lost context"))
}

func TestUniformValid(t *testing.T) {
	assert.False(t, gpu.NoUniform.Valid())
	assert.True(t, gpu.Uniform(0).Valid())
}
