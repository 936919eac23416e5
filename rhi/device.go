package rhi

import (
	"os"

	streamliblog "github.com/tatolab/streamlib/log"
	"github.com/tatolab/streamlib/streamerr"
)

// Backend names one of the GPU backends the RHI can select between.
type Backend string

const (
	BackendMetal    Backend = "metal"
	BackendVulkan   Backend = "vulkan"
	BackendOpenGL   Backend = "opengl"
	BackendSoftware Backend = "software"
)

const backendEnvVar = "STREAMLIB_RHI_BACKEND"

// resolveBackend applies the backend resolution order: explicit
// constructor argument, then STREAMLIB_RHI_BACKEND, then platform
// default. A requested backend this build cannot serve falls back to
// the platform default with a logged warning rather than failing.
func resolveBackend(explicit Backend) Backend {
	if explicit != "" {
		return validateOrFallback(explicit)
	}
	if env := os.Getenv(backendEnvVar); env != "" {
		return validateOrFallback(Backend(env))
	}
	return platformDefault()
}

func validateOrFallback(requested Backend) Backend {
	if backendAvailable(requested) {
		return requested
	}
	fallback := platformDefault()
	streamliblog.GetDefaultLogger().Warn("rhi: backend %q unavailable in this build, falling back to %q", requested, fallback)
	return fallback
}

// platformDefault is software everywhere: this port carries no Metal
// or native Vulkan bindings, so the only backend that can always
// construct a working Device is the CPU-side emulation.
func platformDefault() Backend { return BackendSoftware }

func backendAvailable(b Backend) bool {
	switch b {
	case BackendSoftware:
		return true
	case BackendVulkan:
		return vulkanBackendCompiledIn
	default:
		return false
	}
}

// TextureDescriptor describes a texture to be created by a Device.
type TextureDescriptor struct {
	Width     int
	Height    int
	Format    PixelFormat
	Shareable bool
}

// Device is the GPU device abstraction: it creates textures and hands
// out a long-lived CommandQueue.
type Device interface {
	Backend() Backend
	CreateTexture(desc TextureDescriptor) (*Texture, error)
	CommandQueue() CommandQueue
	Close() error
}

// NewDevice resolves a backend and constructs its Device.
func NewDevice(explicit Backend) (Device, error) {
	switch resolveBackend(explicit) {
	case BackendSoftware:
		return newSoftwareDevice(), nil
	case BackendVulkan:
		return newVulkanDevice()
	default:
		return nil, streamerr.New(streamerr.NotSupported, "rhi: backend not implemented on this platform")
	}
}
