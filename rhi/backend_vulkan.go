//go:build vulkan

package rhi

import "github.com/tatolab/streamlib/streamerr"

// This file stands in for a real Vulkan backend (instance/device/
// swapchain setup via a binding such as github.com/vulkan-go/vulkan).
// No such binding is available in this pack, so selecting the vulkan
// backend still reports NotSupported at construction time — what this
// file exercises is the same build-tag-gated backend-selection path a
// real implementation would plug into.
const vulkanBackendCompiledIn = true

func newVulkanDevice() (Device, error) {
	return nil, streamerr.New(streamerr.NotSupported, "rhi: vulkan backend stub — no GPU binding available in this build")
}
