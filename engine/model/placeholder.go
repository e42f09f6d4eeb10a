package model

import "github.com/spaghettifunk/aurora/engine/assets"

/**
 * @brief Builds the checkerboard image substituted for textures whose
 * source file could not be read or decoded.
 */
func checkerboardImage(size uint32) *assets.ImageData {
	if size == 0 {
		size = 32
	}
	const cell = 4
	pixels := make([]byte, int(size)*int(size)*4)
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			off := int(y)*int(size)*4 + int(x)*4
			var shade byte = 64
			if (x/cell+y/cell)%2 == 0 {
				shade = 192
			}
			pixels[off+0] = shade
			pixels[off+1] = shade
			pixels[off+2] = shade
			pixels[off+3] = 255
		}
	}
	return &assets.ImageData{
		Width:      size,
		Height:     size,
		Components: 4,
		BitDepth:   8,
		Pixels:     pixels,
	}
}
