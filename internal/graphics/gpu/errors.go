package gpu

import (
	"fmt"
	"log/slog"
)

// Driver error codes as returned by glGetError.
const (
	ErrNone                        uint32 = 0
	ErrInvalidEnum                 uint32 = 0x0500
	ErrInvalidValue                uint32 = 0x0501
	ErrInvalidOperation            uint32 = 0x0502
	ErrStackOverflow               uint32 = 0x0503
	ErrStackUnderflow              uint32 = 0x0504
	ErrOutOfMemory                 uint32 = 0x0505
	ErrInvalidFramebufferOperation uint32 = 0x0506
)

// maxDrainedErrors bounds DrainErrors; a lost context can report errors forever.
const maxDrainedErrors = 64

// ErrorName returns the GL enum name for code.
func ErrorName(code uint32) string {
	switch code {
	case ErrNone:
		return "GL_NO_ERROR"
	case ErrInvalidEnum:
		return "GL_INVALID_ENUM"
	case ErrInvalidValue:
		return "GL_INVALID_VALUE"
	case ErrInvalidOperation:
		return "GL_INVALID_OPERATION"
	case ErrStackOverflow:
		return "GL_STACK_OVERFLOW"
	case ErrStackUnderflow:
		return "GL_STACK_UNDERFLOW"
	case ErrOutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case ErrInvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("unknown error (0x%x)", code)
}

// DrainErrors logs every pending driver error and returns how many there were.
// It is a diagnostic aid only.
func DrainErrors(dev Device, logger *slog.Logger, label string) int {
	count := 0
	for code := dev.Error(); code != ErrNone; code = dev.Error() {
		if logger != nil {
			logger.Warn("gl error", "at", label, "error", ErrorName(code))
		}
		count++
		if count >= maxDrainedErrors {
			break
		}
	}
	return count
}
