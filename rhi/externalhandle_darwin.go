//go:build darwin

package rhi

import "github.com/tatolab/streamlib/streamerr"

// Apple's IOSurface/Mach-port/XPC external-handle variants require
// CoreFoundation and IOSurface bindings this pack carries no Go
// wrapper for. A real implementation would export via
// IOSurfaceCreate/IOSurfaceGetID and import via
// IOSurfaceLookup(id), or hand the surface across processes as a
// Mach port / XPC object. Until such a binding is wired in, both
// directions report NotSupported so callers get a typed error instead
// of a silent no-op.
func exportPixelBuffer(buf *PixelBuffer) (ExternalHandle, error) {
	return ExternalHandle{}, streamerr.New(streamerr.NotSupported, "rhi: IOSurface export not implemented on darwin")
}

func importPixelBuffer(handle ExternalHandle) (*PixelBuffer, error) {
	return nil, streamerr.New(streamerr.NotSupported, "rhi: IOSurface import not implemented on darwin")
}
