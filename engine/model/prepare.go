package model

import (
	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/renderer"
	"github.com/spaghettifunk/aurora/engine/resources"
)

/**
 * @brief Uploads all parked texture and buffer data and transitions
 * the resources to their usage states. The first call does the work;
 * repeated calls return immediately. Resources shared with other
 * models are uploaded by whichever model gets to them first, the
 * payload slots guarantee each upload happens once.
 */
func (m *Model) PrepareGPUResources(device renderer.Device, ctx renderer.Context) {
	if m.gpuDataInitialized.Load() {
		return
	}

	var barriers []renderer.StateTransition

	for i := range m.Textures {
		slot := &m.Textures[i]
		switch {
		case slot.Handle != nil:
			tex := slot.Handle.Texture()
			if payload := slot.Handle.TakePayload(); payload.HasData() {
				uploadPayload(ctx, tex, payload, 0, 0, 0)
				barriers = append(barriers, renderer.StateTransition{
					Texture:  tex,
					OldState: renderer.ResourceStateUnknown,
					NewState: renderer.ResourceStateShaderResource,
				})
			}
		case slot.Suballocation != nil:
			sub := slot.Suballocation
			tex := sub.Atlas().Texture(device, ctx)
			if payload := sub.TakePayload(); payload.HasData() {
				uploadPayload(ctx, tex, payload, sub.Slice, sub.OriginX, sub.OriginY)
			}
		}
	}

	for i := range m.Buffers {
		slot := &m.Buffers[i]
		switch {
		case slot.Buffer != nil:
			if data := slot.pending.Take(); data != nil {
				ctx.UpdateBuffer(slot.Buffer, 0, uint64(len(data)), data)
				barriers = append(barriers, renderer.StateTransition{
					Buffer:   slot.Buffer,
					OldState: renderer.ResourceStateUnknown,
					NewState: bufferUsageState(slot.Usage),
				})
			}
		case slot.Suballocation != nil:
			sub := slot.Suballocation
			buf := sub.Pool().Buffer(device, ctx)
			if data := sub.Data().Take(); data != nil {
				ctx.UpdateBuffer(buf, sub.Offset, uint64(len(data)), data)
			}
		}
	}

	if len(barriers) > 0 {
		ctx.TransitionResourceStates(barriers)
	}
	m.gpuDataInitialized.Store(true)
}

func bufferUsageState(usage renderer.BufferUsage) renderer.ResourceState {
	if usage == renderer.BufferUsageIndex {
		return renderer.ResourceStateIndexBuffer
	}
	return renderer.ResourceStateVertexBuffer
}

// uploadPayload writes parked mip data into its destination region, or
// copies the pre-encoded mips from the payload's staging texture.
// Device mip generation runs only when a single level was supplied for
// a multi-mip texture that opted in.
func uploadPayload(ctx renderer.Context, tex renderer.Texture, payload *resources.PendingPayload, slice, originX, originY uint32) {
	if payload.Staging != nil {
		copyStagingMips(ctx, payload.Staging, tex, slice, originX, originY)
		payload.Staging.Release()
		return
	}

	for mip, level := range payload.Levels {
		box := renderer.Box{
			MinX: originX >> mip,
			MaxX: originX>>mip + level.Width,
			MinY: originY >> mip,
			MaxY: originY>>mip + level.Height,
		}
		ctx.UpdateTexture(tex, uint32(mip), slice, box, renderer.SubResourceData{
			Data:   level.Data,
			Stride: level.Stride,
		})
	}

	desc := tex.Desc()
	if len(payload.Levels) == 1 && desc.MipLevels > 1 && desc.GenerateMips {
		ctx.GenerateMips(tex)
	}
}

// copyStagingMips copies every mip the destination has room for,
// stopping at mips smaller than the format block since the copy
// engine cannot address partial blocks.
func copyStagingMips(ctx renderer.Context, staging, dst renderer.Texture, slice, originX, originY uint32) {
	srcDesc := staging.Desc()
	attribs := renderer.GetFormatAttribs(srcDesc.Format)
	mips := math.Min(srcDesc.MipLevels, dst.Desc().MipLevels)

	w, h := srcDesc.Width, srcDesc.Height
	for mip := uint32(0); mip < mips; mip++ {
		if w < attribs.BlockWidth || h < attribs.BlockHeight {
			break
		}
		ctx.CopyTexture(staging, dst, mip, slice, originX>>mip, originY>>mip)
		w = math.Max(w/2, 1)
		h = math.Max(h/2, 1)
	}
}
