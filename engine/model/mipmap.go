package model

import (
	"github.com/chewxy/math32"

	"github.com/spaghettifunk/aurora/engine/assets"
	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/renderer"
	"github.com/spaghettifunk/aurora/engine/resources"
)

/**
 * @brief Converts a decoded image into upload-ready mip data. Three
 * component images gain an opaque alpha channel, the alpha channel is
 * remapped when a positive cutoff is given, and the requested number
 * of mip levels is generated with a box filter.
 */
func prepareTextureInitData(img *assets.ImageData, alphaCutoff float32, numMipLevels uint32) []resources.MipLevel {
	pixels := img.Pixels
	if img.Components == 3 {
		pixels = expandRGBToRGBA(pixels, img.Width, img.Height)
	}
	if alphaCutoff > 0 {
		pixels = remapAlpha(pixels, alphaCutoff)
	}

	levels := make([]resources.MipLevel, 0, numMipLevels)
	levels = append(levels, resources.MipLevel{
		Width:  img.Width,
		Height: img.Height,
		Stride: renderer.RowStride(renderer.TextureFormatRGBA8, img.Width),
		Data:   pixels,
	})

	for level := uint32(1); level < numMipLevels; level++ {
		prev := levels[level-1]
		w, h := renderer.NextMipSize(renderer.TextureFormatRGBA8, prev.Width, prev.Height)
		levels = append(levels, computeMipLevel(prev, w, h))
	}
	return levels
}

/**
 * @brief Appends an opaque alpha channel to tightly packed RGB pixels.
 */
func expandRGBToRGBA(pixels []byte, width, height uint32) []byte {
	count := int(width) * int(height)
	out := make([]byte, count*4)
	for i := 0; i < count; i++ {
		out[i*4+0] = pixels[i*3+0]
		out[i*4+1] = pixels[i*3+1]
		out[i*4+2] = pixels[i*3+2]
		out[i*4+3] = 255
	}
	return out
}

/**
 * @brief Remaps the alpha channel so that alpha-masked textures keep
 * usable gradients in the lower mips. Each alpha value is raised
 * towards the cutoff but never lowered.
 */
func remapAlpha(pixels []byte, alphaCutoff float32) []byte {
	out := make([]byte, len(pixels))
	copy(out, pixels)
	for i := 3; i < len(out); i += 4 {
		a := float32(out[i])
		remapped := math32.Round(a/3 + 2.0/3.0*alphaCutoff*255)
		out[i] = byte(math.Max(a, math.Min(remapped, 255)))
	}
	return out
}

/**
 * @brief Downsamples one RGBA8 mip level to the given dimensions with
 * a 2x2 box filter. Odd source dimensions clamp the second sample to
 * the edge.
 */
func computeMipLevel(src resources.MipLevel, width, height uint32) resources.MipLevel {
	data := make([]byte, int(width)*int(height)*4)
	sample := func(x, y uint32) (uint32, uint32, uint32, uint32) {
		x = math.Min(x, src.Width-1)
		y = math.Min(y, src.Height-1)
		off := int(y)*int(src.Stride) + int(x)*4
		return uint32(src.Data[off]), uint32(src.Data[off+1]), uint32(src.Data[off+2]), uint32(src.Data[off+3])
	}

	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			r0, g0, b0, a0 := sample(x*2, y*2)
			r1, g1, b1, a1 := sample(x*2+1, y*2)
			r2, g2, b2, a2 := sample(x*2, y*2+1)
			r3, g3, b3, a3 := sample(x*2+1, y*2+1)

			off := int(y)*int(width)*4 + int(x)*4
			data[off+0] = byte((r0 + r1 + r2 + r3) / 4)
			data[off+1] = byte((g0 + g1 + g2 + g3) / 4)
			data[off+2] = byte((b0 + b1 + b2 + b3) / 4)
			data[off+3] = byte((a0 + a1 + a2 + a3) / 4)
		}
	}

	return resources.MipLevel{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Data:   data,
	}
}
