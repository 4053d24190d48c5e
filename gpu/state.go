// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ResourceState is the logical usage a resource was last transitioned to.
// The values mirror the Direct3D 12 resource states.
type ResourceState int

const (
	StateCommon ResourceState = iota
	StateVertexAndConstantBuffer
	StateIndexBuffer
	StateRenderTarget
	StateUnorderedAccess
	StateDepthWrite
	StateDepthRead
	StateNonPixelShaderResource
	StatePixelShaderResource
	StateStreamOut
	StateIndirectArgument
	StateCopyDest
	StateCopySource
	StateResolveDest
	StateResolveSource
	StateRaytracingAccelerationStructure
	StateShadingRateSource
	StateGenericRead
	StateAllShaderResource
	StatePresent
	StatePredication
	StateVideoDecodeRead
	StateVideoDecodeWrite
	StateVideoProcessRead
	StateVideoProcessWrite
	StateVideoEncodeRead
	StateVideoEncodeWrite

	stateCount
)

var stateNames = [stateCount]string{
	StateCommon:                          "Common",
	StateVertexAndConstantBuffer:         "VertexAndConstantBuffer",
	StateIndexBuffer:                     "IndexBuffer",
	StateRenderTarget:                    "RenderTarget",
	StateUnorderedAccess:                 "UnorderedAccess",
	StateDepthWrite:                      "DepthWrite",
	StateDepthRead:                       "DepthRead",
	StateNonPixelShaderResource:          "NonPixelShaderResource",
	StatePixelShaderResource:             "PixelShaderResource",
	StateStreamOut:                       "StreamOut",
	StateIndirectArgument:                "IndirectArgument",
	StateCopyDest:                        "CopyDest",
	StateCopySource:                      "CopySource",
	StateResolveDest:                     "ResolveDest",
	StateResolveSource:                   "ResolveSource",
	StateRaytracingAccelerationStructure: "RaytracingAccelerationStructure",
	StateShadingRateSource:               "ShadingRateSource",
	StateGenericRead:                     "GenericRead",
	StateAllShaderResource:               "AllShaderResource",
	StatePresent:                         "Present",
	StatePredication:                     "Predication",
	StateVideoDecodeRead:                 "VideoDecodeRead",
	StateVideoDecodeWrite:                "VideoDecodeWrite",
	StateVideoProcessRead:                "VideoProcessRead",
	StateVideoProcessWrite:               "VideoProcessWrite",
	StateVideoEncodeRead:                 "VideoEncodeRead",
	StateVideoEncodeWrite:                "VideoEncodeWrite",
}

// String returns the string representation of ResourceState.
func (s ResourceState) String() string {
	if s >= 0 && s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// IsValid reports whether s is a known state.
func (s ResourceState) IsValid() bool { return s >= 0 && s < stateCount }

// TextureUsage returns the HAL texture usage a texture in state s is
// used as, or zero when the state has no texture equivalent.
//
// Back buffers are presented by being read, so Present maps to CopySrc.
func (s ResourceState) TextureUsage() gputypes.TextureUsage {
	switch s {
	case StateRenderTarget, StateDepthWrite, StateDepthRead:
		return gputypes.TextureUsageRenderAttachment
	case StateUnorderedAccess:
		return gputypes.TextureUsageStorageBinding
	case StateNonPixelShaderResource, StatePixelShaderResource, StateAllShaderResource:
		return gputypes.TextureUsageTextureBinding
	case StateCopyDest, StateResolveDest:
		return gputypes.TextureUsageCopyDst
	case StateCopySource, StateResolveSource, StatePresent:
		return gputypes.TextureUsageCopySrc
	default:
		return 0
	}
}
