package renderer

import (
	"sync/atomic"

	"github.com/spaghettifunk/aurora/engine/core"
)

/**
 * @brief NullDevice implements Device without a GPU backend. It is used
 * by the asset validator and by tests to exercise the full resource
 * pipeline on machines without a graphics device.
 */
type NullDevice struct {
	texturesCreated atomic.Uint64
	buffersCreated  atomic.Uint64
	samplersCreated atomic.Uint64
}

func NewNullDevice() *NullDevice {
	return &NullDevice{}
}

func (d *NullDevice) CreateTexture(desc TextureDesc, initData []SubResourceData) (Texture, error) {
	d.texturesCreated.Add(1)
	core.LogDebug("null device: create texture %q %dx%d mips=%d", desc.Name, desc.Width, desc.Height, desc.MipLevels)
	return &nullTexture{desc: desc}, nil
}

func (d *NullDevice) CreateBuffer(desc BufferDesc) (Buffer, error) {
	d.buffersCreated.Add(1)
	core.LogDebug("null device: create buffer %q size=%d", desc.Name, desc.Size)
	return &nullBuffer{desc: desc}, nil
}

func (d *NullDevice) CreateSampler(desc SamplerDesc) (Sampler, error) {
	d.samplersCreated.Add(1)
	return &nullSampler{desc: desc}, nil
}

/** @brief Number of textures created so far. */
func (d *NullDevice) TexturesCreated() uint64 { return d.texturesCreated.Load() }

/** @brief Number of buffers created so far. */
func (d *NullDevice) BuffersCreated() uint64 { return d.buffersCreated.Load() }

type nullTexture struct {
	desc TextureDesc
}

func (t *nullTexture) Desc() TextureDesc { return t.desc }
func (t *nullTexture) Release()          {}

type nullBuffer struct {
	desc BufferDesc
}

func (b *nullBuffer) Desc() BufferDesc { return b.desc }
func (b *nullBuffer) Release()         {}

type nullSampler struct {
	desc SamplerDesc
}

func (s *nullSampler) Desc() SamplerDesc { return s.desc }
func (s *nullSampler) Release()          {}

/**
 * @brief NullContext implements Context by counting operations. Useful
 * for validating upload traffic without a GPU.
 */
type NullContext struct {
	TextureUpdates uint64
	BufferUpdates  uint64
	Copies         uint64
	MipGenerations uint64
	Transitions    uint64
}

func NewNullContext() *NullContext {
	return &NullContext{}
}

func (c *NullContext) UpdateTexture(tex Texture, mipLevel, slice uint32, region Box, data SubResourceData) {
	c.TextureUpdates++
}

func (c *NullContext) UpdateBuffer(buf Buffer, offset, size uint64, data []byte) {
	c.BufferUpdates++
}

func (c *NullContext) CopyTexture(src, dst Texture, mipLevel, slice, dstX, dstY uint32) {
	c.Copies++
}

func (c *NullContext) GenerateMips(tex Texture) {
	c.MipGenerations++
}

func (c *NullContext) TransitionResourceStates(transitions []StateTransition) {
	c.Transitions += uint64(len(transitions))
}
