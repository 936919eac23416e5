package rhi

// ExternalHandleKind tags which platform-specific variant an
// ExternalHandle carries.
type ExternalHandleKind int

const (
	ExternalHandleDmaBuf ExternalHandleKind = iota
	ExternalHandleIOSurface
	ExternalHandleIOSurfaceMachPort
	ExternalHandleIOSurfaceXpc
	ExternalHandleDxgiShared
)

// DmaBufHandle is the Linux cross-process ticket for a GPU resource,
// transferred via SCM_RIGHTS.
type DmaBufHandle struct {
	Fd   int
	Size int
}

// IOSurfaceHandle is the Apple cross-process ticket keyed by a 32-bit
// IOSurface id.
type IOSurfaceHandle struct {
	ID uint32
}

// IOSurfaceMachPortHandle carries a Mach port naming an IOSurface.
type IOSurfaceMachPortHandle struct {
	Port uint32
}

// IOSurfaceXpcHandle carries an opaque XPC object naming an
// IOSurface.
type IOSurfaceXpcHandle struct {
	Opaque uintptr
}

// DxgiSharedHandle is the Windows cross-process ticket for a shared
// DXGI resource.
type DxgiSharedHandle struct {
	Handle uintptr
}

// ExternalHandle is the cross-process ticket for a GPU resource: a
// tagged union over platform-specific variants, plus the dimensions
// needed to reconstruct a pixel buffer on import. The handle itself is
// opaque; semantic equality ties to the platform identifier only.
type ExternalHandle struct {
	Kind   ExternalHandleKind
	Width  int
	Height int
	Format PixelFormat

	DmaBuf            *DmaBufHandle
	IOSurface         *IOSurfaceHandle
	IOSurfaceMachPort *IOSurfaceMachPortHandle
	IOSurfaceXpc      *IOSurfaceXpcHandle
	DxgiShared        *DxgiSharedHandle
}

// Equal compares two handles by platform identifier only.
func (h ExternalHandle) Equal(other ExternalHandle) bool {
	if h.Kind != other.Kind {
		return false
	}
	switch h.Kind {
	case ExternalHandleDmaBuf:
		return h.DmaBuf != nil && other.DmaBuf != nil && h.DmaBuf.Fd == other.DmaBuf.Fd
	case ExternalHandleIOSurface:
		return h.IOSurface != nil && other.IOSurface != nil && h.IOSurface.ID == other.IOSurface.ID
	case ExternalHandleIOSurfaceMachPort:
		return h.IOSurfaceMachPort != nil && other.IOSurfaceMachPort != nil && h.IOSurfaceMachPort.Port == other.IOSurfaceMachPort.Port
	case ExternalHandleIOSurfaceXpc:
		return h.IOSurfaceXpc != nil && other.IOSurfaceXpc != nil && h.IOSurfaceXpc.Opaque == other.IOSurfaceXpc.Opaque
	case ExternalHandleDxgiShared:
		return h.DxgiShared != nil && other.DxgiShared != nil && h.DxgiShared.Handle == other.DxgiShared.Handle
	default:
		return false
	}
}

// ExportPixelBuffer produces a cross-process ticket for buf. On Linux
// the ticket names a memfd holding a copy of buf's bytes, and Import
// returns a new pixel buffer holding a further copy: it does not share
// memory with buf. Other platforms report NotSupported.
func ExportPixelBuffer(buf *PixelBuffer) (ExternalHandle, error) {
	return exportPixelBuffer(buf)
}

// ImportPixelBuffer reconstructs a pixel buffer from a handle
// previously produced by ExportPixelBuffer.
func ImportPixelBuffer(handle ExternalHandle) (*PixelBuffer, error) {
	return importPixelBuffer(handle)
}
