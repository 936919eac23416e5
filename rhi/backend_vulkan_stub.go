//go:build !vulkan

package rhi

import "github.com/tatolab/streamlib/streamerr"

const vulkanBackendCompiledIn = false

func newVulkanDevice() (Device, error) {
	return nil, streamerr.New(streamerr.NotSupported, "rhi: vulkan backend not compiled in (build with -tags vulkan)")
}
