package model

import (
	"github.com/spaghettifunk/aurora/engine/assets"
	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/importer"
	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/renderer"
	"github.com/spaghettifunk/aurora/engine/resources"
)

/**
 * @brief A texture used by the model. Exactly one of Handle and
 * Suballocation is set for a valid slot: Handle for a dedicated,
 * possibly cache-shared texture, Suballocation for a region inside a
 * shared atlas.
 */
type TextureSlot struct {
	Handle        *resources.TextureHandle
	Suballocation *resources.TextureSuballocation
	Sampler       renderer.Sampler
}

/** @brief Reports whether the slot refers to any texture. */
func (t *TextureSlot) Valid() bool {
	return t.Handle != nil || t.Suballocation != nil
}

/**
 * @brief UV transform addressing the texture. Identity for dedicated
 * textures, the region transform for atlas suballocations.
 */
func (t *TextureSlot) UVScaleBias() math.Vec4 {
	if t.Suballocation != nil {
		return t.Suballocation.UVScaleBias
	}
	return math.Vec4{X: 1, Y: 1}
}

/**
 * @brief Resolves one texture reference into a slot, reusing cache and
 * atlas entries when the image was seen before. The decoded pixels are
 * parked in the slot's payload for the next PrepareGPUResources call.
 */
func (m *Model) addTexture(device renderer.Device, doc *importer.Document, texture importer.Texture, sampler renderer.Sampler, alphaCutoff float32, ci CreateInfo) (TextureSlot, error) {
	slot := TextureSlot{Sampler: sampler}

	var img importer.Image
	if texture.Source >= 0 && texture.Source < len(doc.Images) {
		img = doc.Images[texture.Source]
	}

	if m.manager != nil {
		sub, err := m.addSuballocatedTexture(device, img, alphaCutoff, ci)
		if err != nil {
			return slot, err
		}
		if sub != nil {
			slot.Suballocation = sub
			return slot, nil
		}
	}

	handle, err := m.addDedicatedTexture(device, img, alphaCutoff, ci)
	if err != nil {
		return slot, err
	}
	slot.Handle = handle
	return slot, nil
}

func (m *Model) addSuballocatedTexture(device renderer.Device, img importer.Image, alphaCutoff float32, ci CreateInfo) (*resources.TextureSuballocation, error) {
	if img.CacheKey != "" {
		if sub := m.manager.FindAllocation(img.CacheKey); sub != nil {
			return sub, nil
		}
	}

	if img.Container == assets.ContainerDDS && img.Raw != nil {
		info, err := assets.ParseDDS(img.Raw)
		if err != nil {
			core.LogWarn("failed to parse dds image: %v", err)
			return m.allocatePixelRegion(checkerboardImage(ci.PlaceholderSize), 0, img.CacheKey)
		}
		sub := m.manager.AllocateTextureSpace(info.Format, info.Width, info.Height, img.CacheKey)
		if sub == nil {
			return nil, nil
		}
		staging, err := createStagingTexture(device, img.CacheKey, info)
		if err != nil {
			return nil, err
		}
		if !sub.Payload().Attach(&resources.PendingPayload{Staging: staging}) {
			staging.Release()
		}
		return sub, nil
	}

	pixels := img.Pixels
	if img.Container == assets.ContainerKTX {
		core.LogWarn("ktx containers are not supported, substituting placeholder for %q", img.URI)
		pixels = nil
	}
	if pixels == nil {
		pixels = checkerboardImage(ci.PlaceholderSize)
	}
	return m.allocatePixelRegion(pixels, alphaCutoff, img.CacheKey)
}

// allocatePixelRegion reserves atlas space and parks the full CPU mip
// chain, since atlas regions cannot use device mip generation.
func (m *Model) allocatePixelRegion(pixels *assets.ImageData, alphaCutoff float32, key string) (*resources.TextureSuballocation, error) {
	sub := m.manager.AllocateTextureSpace(renderer.TextureFormatRGBA8, pixels.Width, pixels.Height, key)
	if sub == nil {
		return nil, nil
	}
	levels := prepareTextureInitData(pixels, alphaCutoff, renderer.FullMipChainLevels(pixels.Width, pixels.Height))
	sub.Payload().Attach(&resources.PendingPayload{Levels: levels})
	return sub, nil
}

func (m *Model) addDedicatedTexture(device renderer.Device, img importer.Image, alphaCutoff float32, ci CreateInfo) (*resources.TextureHandle, error) {
	if m.cache != nil && img.CacheKey != "" {
		if h := m.cache.Lookup(img.CacheKey); h != nil {
			return h, nil
		}
	}

	var handle *resources.TextureHandle
	var err error
	if img.Container == assets.ContainerDDS && img.Raw != nil {
		handle, err = newContainerTexture(device, img, ci)
	} else {
		pixels := img.Pixels
		if img.Container == assets.ContainerKTX {
			core.LogWarn("ktx containers are not supported, substituting placeholder for %q", img.URI)
			pixels = nil
		}
		if pixels == nil {
			if img.CacheKey != "" || img.URI != "" {
				core.LogWarn("no pixel data for texture %q, substituting placeholder", img.URI)
			}
			pixels = checkerboardImage(ci.PlaceholderSize)
		}
		handle, err = newPixelTexture(device, img.CacheKey, pixels, alphaCutoff)
	}
	if err != nil {
		return nil, err
	}

	if m.cache != nil && img.CacheKey != "" {
		if shared := m.cache.Insert(img.CacheKey, handle); shared != handle {
			handle.Release()
			handle = shared
		}
	}
	return handle, nil
}

// newPixelTexture creates an empty device texture with a full mip
// chain and parks the base level. The remaining mips are generated on
// the device after the base level is uploaded.
func newPixelTexture(device renderer.Device, key string, pixels *assets.ImageData, alphaCutoff float32) (*resources.TextureHandle, error) {
	name := key
	if name == "" {
		name = core.NewResourceName("texture")
	}
	desc := renderer.TextureDesc{
		Name:         name,
		Width:        pixels.Width,
		Height:       pixels.Height,
		ArraySize:    1,
		MipLevels:    renderer.FullMipChainLevels(pixels.Width, pixels.Height),
		Format:       renderer.TextureFormatRGBA8,
		GenerateMips: true,
	}
	tex, err := device.CreateTexture(desc, nil)
	if err != nil {
		return nil, err
	}
	handle := resources.NewTextureHandle(tex)
	levels := prepareTextureInitData(pixels, alphaCutoff, 1)
	handle.Payload().Attach(&resources.PendingPayload{Levels: levels})
	return handle, nil
}

// newContainerTexture creates the final texture empty and a staging
// texture holding the container's pre-encoded mips. The staging copy
// happens in PrepareGPUResources.
func newContainerTexture(device renderer.Device, img importer.Image, ci CreateInfo) (*resources.TextureHandle, error) {
	info, err := assets.ParseDDS(img.Raw)
	if err != nil {
		core.LogWarn("failed to parse dds image %q: %v", img.URI, err)
		return newPixelTexture(device, img.CacheKey, checkerboardImage(ci.PlaceholderSize), 0)
	}

	desc := renderer.TextureDesc{
		Name:      img.CacheKey,
		Width:     info.Width,
		Height:    info.Height,
		ArraySize: 1,
		MipLevels: info.MipLevels,
		Format:    info.Format,
	}
	tex, err := device.CreateTexture(desc, nil)
	if err != nil {
		return nil, err
	}
	staging, err := createStagingTexture(device, img.CacheKey, info)
	if err != nil {
		tex.Release()
		return nil, err
	}
	handle := resources.NewTextureHandle(tex)
	handle.Payload().Attach(&resources.PendingPayload{Staging: staging})
	return handle, nil
}

func createStagingTexture(device renderer.Device, name string, info *assets.DDSImage) (renderer.Texture, error) {
	initData := make([]renderer.SubResourceData, len(info.Levels))
	for i, level := range info.Levels {
		initData[i] = renderer.SubResourceData{Data: level.Data, Stride: level.Stride}
	}
	return device.CreateTexture(renderer.TextureDesc{
		Name:      core.NewResourceName(name + "_staging"),
		Width:     info.Width,
		Height:    info.Height,
		ArraySize: 1,
		MipLevels: info.MipLevels,
		Format:    info.Format,
	}, initData)
}
