//go:build windows

package rhi

import "github.com/tatolab/streamlib/streamerr"

// Windows' DxgiShared external handle requires DXGI/D3D11 bindings
// this pack carries no Go wrapper for (IDXGIResource1::CreateSharedHandle
// and OpenSharedResource1 on the importing side). Until such a binding
// is wired in, both directions report NotSupported.
func exportPixelBuffer(buf *PixelBuffer) (ExternalHandle, error) {
	return ExternalHandle{}, streamerr.New(streamerr.NotSupported, "rhi: DxgiShared export not implemented on windows")
}

func importPixelBuffer(handle ExternalHandle) (*PixelBuffer, error) {
	return nil, streamerr.New(streamerr.NotSupported, "rhi: DxgiShared import not implemented on windows")
}
