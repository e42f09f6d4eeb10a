package renderer

import "github.com/spaghettifunk/aurora/engine/math"

// TextureFormat enumerates the pixel formats the resource pipeline understands.
type TextureFormat uint8

const (
	TextureFormatUnknown TextureFormat = iota
	/** @brief 8 bits per channel RGBA. */
	TextureFormatRGBA8
	/** @brief 8 bits per channel RGBA, sRGB encoded. */
	TextureFormatRGBA8SRGB
	/** @brief BC1 block compression, 8 bytes per 4x4 block. */
	TextureFormatBC1
	/** @brief BC3 block compression, 16 bytes per 4x4 block. */
	TextureFormatBC3
	/** @brief BC7 block compression, 16 bytes per 4x4 block. */
	TextureFormatBC7
)

/**
 * @brief Static properties of a texture format needed to compute
 * row strides and mip dimensions.
 */
type FormatAttribs struct {
	/** @brief Block width in pixels. 1 for uncompressed formats. */
	BlockWidth uint32
	/** @brief Block height in pixels. 1 for uncompressed formats. */
	BlockHeight uint32
	/** @brief Size of one component, or of one whole block for compressed formats. */
	ComponentSize uint32
	/** @brief Number of components per pixel. */
	NumComponents uint32
	/** @brief True for block-compressed formats. */
	Compressed bool
}

var formatAttribs = map[TextureFormat]FormatAttribs{
	TextureFormatRGBA8:     {BlockWidth: 1, BlockHeight: 1, ComponentSize: 1, NumComponents: 4},
	TextureFormatRGBA8SRGB: {BlockWidth: 1, BlockHeight: 1, ComponentSize: 1, NumComponents: 4},
	TextureFormatBC1:       {BlockWidth: 4, BlockHeight: 4, ComponentSize: 8, NumComponents: 4, Compressed: true},
	TextureFormatBC3:       {BlockWidth: 4, BlockHeight: 4, ComponentSize: 16, NumComponents: 4, Compressed: true},
	TextureFormatBC7:       {BlockWidth: 4, BlockHeight: 4, ComponentSize: 16, NumComponents: 4, Compressed: true},
}

/**
 * @brief Returns the attributes of the given format. Unknown formats
 * report the RGBA8 attributes so callers always get usable strides.
 */
func GetFormatAttribs(format TextureFormat) FormatAttribs {
	if a, ok := formatAttribs[format]; ok {
		return a
	}
	return formatAttribs[TextureFormatRGBA8]
}

/**
 * @brief Computes the byte stride of one row of blocks for a mip of the
 * given width.
 */
func RowStride(format TextureFormat, width uint32) uint32 {
	a := GetFormatAttribs(format)
	w := math.AlignUp(math.Max(width, 1), a.BlockWidth)
	stride := w / a.BlockWidth * a.ComponentSize
	if !a.Compressed {
		stride *= a.NumComponents
	}
	return stride
}

/**
 * @brief Computes the dimensions of the next smaller mip level, rounded
 * up to the format block size.
 */
func NextMipSize(format TextureFormat, width, height uint32) (uint32, uint32) {
	a := GetFormatAttribs(format)
	w := math.AlignUp(math.Max(width/2, 1), a.BlockWidth)
	h := math.AlignUp(math.Max(height/2, 1), a.BlockHeight)
	return w, h
}

/**
 * @brief Number of mip levels in a full chain for a texture of the
 * given size.
 */
func FullMipChainLevels(width, height uint32) uint32 {
	levels := uint32(1)
	for width > 1 || height > 1 {
		width = math.Max(width/2, 1)
		height = math.Max(height/2, 1)
		levels++
	}
	return levels
}
