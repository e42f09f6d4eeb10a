package assets

import (
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/renderer"
)

/**
 * @brief One pre-encoded mip level inside a DDS file. Data aliases the
 * file bytes, it is not copied.
 */
type DDSLevel struct {
	Width  uint32
	Height uint32
	Stride uint32
	Data   []byte
}

/**
 * @brief A parsed DDS file with its mip chain located in the file
 * bytes.
 */
type DDSImage struct {
	Width     uint32
	Height    uint32
	MipLevels uint32
	Format    renderer.TextureFormat
	Levels    []DDSLevel
}

const (
	ddsHeaderSize     = 124
	ddsPixelFormatOff = 4 + 72
	ddsDX10HeaderSize = 20
)

/**
 * @brief Parses a DDS file header and slices out the mip chain of the
 * first array face.
 */
func ParseDDS(data []byte) (*DDSImage, error) {
	if len(data) < 4+ddsHeaderSize {
		return nil, fmt.Errorf("dds file too short: %d bytes", len(data))
	}
	if SniffContainer(data) != ContainerDDS {
		return nil, fmt.Errorf("missing dds magic")
	}

	le := binary.LittleEndian
	height := le.Uint32(data[12:])
	width := le.Uint32(data[16:])
	mipCount := le.Uint32(data[28:])
	if mipCount == 0 {
		mipCount = 1
	}
	fourCC := string(data[ddsPixelFormatOff+8 : ddsPixelFormatOff+12])

	dataOff := 4 + ddsHeaderSize
	var format renderer.TextureFormat
	switch fourCC {
	case "DXT1":
		format = renderer.TextureFormatBC1
	case "DXT5":
		format = renderer.TextureFormatBC3
	case "DX10":
		if len(data) < dataOff+ddsDX10HeaderSize {
			return nil, fmt.Errorf("dds file truncated before dx10 header")
		}
		dxgi := le.Uint32(data[dataOff:])
		dataOff += ddsDX10HeaderSize
		switch dxgi {
		case 28: // DXGI_FORMAT_R8G8B8A8_UNORM
			format = renderer.TextureFormatRGBA8
		case 29: // DXGI_FORMAT_R8G8B8A8_UNORM_SRGB
			format = renderer.TextureFormatRGBA8SRGB
		case 71, 72: // DXGI_FORMAT_BC1_UNORM(_SRGB)
			format = renderer.TextureFormatBC1
		case 77, 78: // DXGI_FORMAT_BC3_UNORM(_SRGB)
			format = renderer.TextureFormatBC3
		case 98, 99: // DXGI_FORMAT_BC7_UNORM(_SRGB)
			format = renderer.TextureFormatBC7
		default:
			return nil, fmt.Errorf("unsupported dxgi format %d", dxgi)
		}
	default:
		return nil, fmt.Errorf("unsupported dds pixel format %q", fourCC)
	}

	img := &DDSImage{
		Width:     width,
		Height:    height,
		MipLevels: mipCount,
		Format:    format,
	}

	attribs := renderer.GetFormatAttribs(format)
	w, h := width, height
	off := dataOff
	for mip := uint32(0); mip < mipCount; mip++ {
		stride := renderer.RowStride(format, w)
		rows := math.AlignUp(math.Max(h, 1), attribs.BlockHeight) / attribs.BlockHeight
		size := int(stride) * int(rows)
		if off+size > len(data) {
			return nil, fmt.Errorf("dds file truncated at mip %d", mip)
		}
		img.Levels = append(img.Levels, DDSLevel{
			Width:  w,
			Height: h,
			Stride: stride,
			Data:   data[off : off+size],
		})
		off += size
		w = math.Max(w/2, 1)
		h = math.Max(h/2, 1)
	}
	return img, nil
}
