package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowStride(t *testing.T) {
	// 16 pixels of RGBA8 are 64 bytes
	assert.Equal(t, uint32(64), RowStride(TextureFormatRGBA8, 16))
	// 16 pixels of BC1 are four blocks of 8 bytes
	assert.Equal(t, uint32(32), RowStride(TextureFormatBC1, 16))
	// widths round up to whole blocks
	assert.Equal(t, uint32(8), RowStride(TextureFormatBC1, 2))
	assert.Equal(t, uint32(16), RowStride(TextureFormatBC3, 1))
}

func TestNextMipSize(t *testing.T) {
	w, h := NextMipSize(TextureFormatRGBA8, 8, 4)
	assert.Equal(t, uint32(4), w)
	assert.Equal(t, uint32(2), h)

	w, h = NextMipSize(TextureFormatRGBA8, 1, 1)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)

	// compressed formats round up to the block size
	w, h = NextMipSize(TextureFormatBC1, 8, 8)
	assert.Equal(t, uint32(4), w)
	assert.Equal(t, uint32(4), h)
	w, h = NextMipSize(TextureFormatBC1, 4, 4)
	assert.Equal(t, uint32(4), w)
	assert.Equal(t, uint32(4), h)
}

func TestFullMipChainLevels(t *testing.T) {
	assert.Equal(t, uint32(1), FullMipChainLevels(1, 1))
	assert.Equal(t, uint32(5), FullMipChainLevels(16, 16))
	assert.Equal(t, uint32(5), FullMipChainLevels(16, 4))
	assert.Equal(t, uint32(11), FullMipChainLevels(1024, 512))
}
