package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aurora/engine/assets"
)

func TestRemapAlphaRaisesTowardsCutoff(t *testing.T) {
	pixels := []byte{10, 20, 30, 0}
	out := remapAlpha(pixels, 0.5)

	// 0/3 + 2/3 * 0.5 * 255 = 85
	assert.Equal(t, byte(85), out[3])
	// color channels are untouched
	assert.Equal(t, []byte{10, 20, 30}, out[:3])
	// the input is not modified
	assert.Equal(t, byte(0), pixels[3])
}

func TestRemapAlphaNeverLowers(t *testing.T) {
	pixels := []byte{0, 0, 0, 255}
	out := remapAlpha(pixels, 0.5)
	assert.Equal(t, byte(255), out[3])

	pixels = []byte{0, 0, 0, 200}
	out = remapAlpha(pixels, 0.1)
	assert.Equal(t, byte(200), out[3])
}

func TestExpandRGBToRGBA(t *testing.T) {
	rgb := []byte{1, 2, 3, 4, 5, 6}
	out := expandRGBToRGBA(rgb, 2, 1)

	assert.Equal(t, []byte{1, 2, 3, 255, 4, 5, 6, 255}, out)
}

func TestPrepareTextureInitDataMipChain(t *testing.T) {
	img := &assets.ImageData{
		Width:      4,
		Height:     4,
		Components: 4,
		BitDepth:   8,
		Pixels:     make([]byte, 4*4*4),
	}
	for i := range img.Pixels {
		img.Pixels[i] = 100
	}

	levels := prepareTextureInitData(img, 0, 3)
	require.Len(t, levels, 3)

	assert.Equal(t, uint32(4), levels[0].Width)
	assert.Equal(t, uint32(2), levels[1].Width)
	assert.Equal(t, uint32(2), levels[1].Height)
	assert.Equal(t, uint32(1), levels[2].Width)
	assert.Equal(t, uint32(1), levels[2].Height)

	// a uniform image stays uniform through the box filter
	for _, b := range levels[2].Data {
		assert.Equal(t, byte(100), b)
	}
	assert.Equal(t, uint32(8), levels[1].Stride)
	assert.Len(t, levels[2].Data, 4)
}

func TestPrepareTextureInitDataExpandsRGB(t *testing.T) {
	img := &assets.ImageData{
		Width:      1,
		Height:     1,
		Components: 3,
		BitDepth:   8,
		Pixels:     []byte{7, 8, 9},
	}

	levels := prepareTextureInitData(img, 0, 1)
	require.Len(t, levels, 1)
	assert.Equal(t, []byte{7, 8, 9, 255}, levels[0].Data)
}

func TestCheckerboardImage(t *testing.T) {
	img := checkerboardImage(32)

	assert.Equal(t, uint32(32), img.Width)
	assert.Equal(t, uint32(32), img.Height)
	assert.Len(t, img.Pixels, 32*32*4)

	// opposing cells differ, alpha is opaque everywhere
	first := img.Pixels[0]
	other := img.Pixels[4*4*4] // start of the next cell in the row
	assert.NotEqual(t, first, other)
	for i := 3; i < len(img.Pixels); i += 4 {
		require.Equal(t, byte(255), img.Pixels[i])
	}
}

func TestTextureAlphaCutoffReconciliation(t *testing.T) {
	mask := newDefaultMaterial()
	mask.AlphaMode = AlphaModeMask
	mask.AlphaCutoff = 0.5
	mask.Textures[TextureAttribBaseColor].Index = 0

	opaque := newDefaultMaterial()
	opaque.Textures[TextureAttribBaseColor].Index = 0

	blend := newDefaultMaterial()
	blend.AlphaMode = AlphaModeBlend
	blend.Textures[TextureAttribBaseColor].Index = 0

	mask2 := newDefaultMaterial()
	mask2.AlphaMode = AlphaModeMask
	mask2.AlphaCutoff = 0.25
	mask2.Textures[TextureAttribBaseColor].Index = 0

	// opaque usages are ignored
	assert.Equal(t, float32(0.5), textureAlphaCutoff([]Material{mask, opaque}, 0))
	// unused texture index
	assert.Equal(t, float32(0), textureAlphaCutoff([]Material{mask}, 7))
	// mask and blend conflict disables remapping
	assert.Equal(t, float32(0), textureAlphaCutoff([]Material{mask, blend}, 0))
	// different cutoffs pick the smaller one
	assert.Equal(t, float32(0.25), textureAlphaCutoff([]Material{mask, mask2}, 0))
}
