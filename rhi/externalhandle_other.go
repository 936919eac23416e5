//go:build !linux && !darwin && !windows

package rhi

import "github.com/tatolab/streamlib/streamerr"

// No external-handle variant is implementable on platforms outside
// Linux/Apple/Windows.
func exportPixelBuffer(buf *PixelBuffer) (ExternalHandle, error) {
	return ExternalHandle{}, streamerr.New(streamerr.NotSupported, "rhi: no external handle variant implemented on this platform")
}

func importPixelBuffer(handle ExternalHandle) (*PixelBuffer, error) {
	return nil, streamerr.New(streamerr.NotSupported, "rhi: no external handle variant implemented on this platform")
}
