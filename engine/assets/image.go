package assets

import (
	"bytes"
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"

	"fmt"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

/**
 * @brief Decoded image pixels. Pixels are always tightly packed RGBA,
 * 8 bits per channel.
 */
type ImageData struct {
	Width      uint32
	Height     uint32
	Components uint32
	BitDepth   uint32
	Pixels     []byte
}

// ContainerFormat identifies the on-disk container of an image file.
type ContainerFormat uint8

const (
	/** @brief A plain image file decoded to RGBA pixels. */
	ContainerPixels ContainerFormat = iota
	/** @brief A DDS file with pre-encoded, possibly compressed mips. */
	ContainerDDS
	/** @brief A KTX file with pre-encoded, possibly compressed mips. */
	ContainerKTX
)

var ddsMagic = []byte{'D', 'D', 'S', ' '}
var ktxMagic = []byte{0xAB, 'K', 'T', 'X'}

/**
 * @brief Inspects the first bytes of a file and reports its container
 * format. GPU-native containers carry their own mip chains and skip
 * the pixel decode path.
 */
func SniffContainer(data []byte) ContainerFormat {
	if bytes.HasPrefix(data, ddsMagic) {
		return ContainerDDS
	}
	if bytes.HasPrefix(data, ktxMagic) {
		return ContainerKTX
	}
	return ContainerPixels
}

/**
 * @brief Decodes png, jpeg, bmp, tiff or webp data into RGBA pixels.
 */
func DecodeImage(data []byte) (*ImageData, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &ImageData{
		Width:      uint32(bounds.Dx()),
		Height:     uint32(bounds.Dy()),
		Components: 4,
		BitDepth:   8,
		Pixels:     rgba.Pix,
	}, nil
}
