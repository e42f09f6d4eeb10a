package resources

import (
	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/renderer"
)

/**
 * @brief Atlas is a shared array texture that suballocations are placed
 * in. The backing device texture may be created lazily, so Texture
 * takes the device and context needed to materialize it.
 */
type Atlas interface {
	Desc() renderer.TextureDesc
	Texture(device renderer.Device, ctx renderer.Context) renderer.Texture
}

/**
 * @brief A rectangular region inside a texture atlas assigned to one
 * source image.
 */
type TextureSuballocation struct {
	atlas Atlas
	/** @brief Array slice inside the atlas. */
	Slice uint32
	/** @brief Top-left corner of the region in texels. */
	OriginX uint32
	OriginY uint32
	Width   uint32
	Height  uint32
	/** @brief Scale in XY and bias in ZW applied to UVs addressing the region. */
	UVScaleBias math.Vec4
	payload     PayloadSlot
}

/**
 * @brief Creates a suballocation record. Used by ResourceManager
 * implementations and by tests.
 */
func NewTextureSuballocation(atlas Atlas, slice, originX, originY, width, height uint32) *TextureSuballocation {
	desc := atlas.Desc()
	return &TextureSuballocation{
		atlas:   atlas,
		Slice:   slice,
		OriginX: originX,
		OriginY: originY,
		Width:   width,
		Height:  height,
		UVScaleBias: math.Vec4{
			X: float32(width) / float32(desc.Width),
			Y: float32(height) / float32(desc.Height),
			Z: float32(originX) / float32(desc.Width),
			W: float32(originY) / float32(desc.Height),
		},
	}
}

/** @brief The atlas this region lives in. */
func (s *TextureSuballocation) Atlas() Atlas { return s.atlas }

/** @brief The deferred upload slot for this region. */
func (s *TextureSuballocation) Payload() *PayloadSlot { return &s.payload }

/**
 * @brief Removes and returns the pending upload data, if any.
 */
func (s *TextureSuballocation) TakePayload() *PendingPayload { return s.payload.Take() }

/**
 * @brief BufferPool is a shared device buffer that suballocations are
 * placed in.
 */
type BufferPool interface {
	Desc() renderer.BufferDesc
	Buffer(device renderer.Device, ctx renderer.Context) renderer.Buffer
}

/**
 * @brief A byte range inside a shared buffer assigned to one mesh data
 * blob.
 */
type BufferSuballocation struct {
	pool   BufferPool
	Offset uint64
	Size   uint64
	data   DataSlot
}

func NewBufferSuballocation(pool BufferPool, offset, size uint64) *BufferSuballocation {
	return &BufferSuballocation{pool: pool, Offset: offset, Size: size}
}

/** @brief The pool this range lives in. */
func (s *BufferSuballocation) Pool() BufferPool { return s.pool }

/** @brief The deferred data slot for this range. */
func (s *BufferSuballocation) Data() *DataSlot { return &s.data }

/**
 * @brief ResourceManager hands out shared space for textures and mesh
 * buffers. Implementations must be safe for concurrent use. Returning
 * nil from an allocation means the caller should create a dedicated
 * resource instead.
 */
type ResourceManager interface {
	/**
	 * @brief Reserves atlas space for an image. When key is non-empty
	 * the same region is returned for repeated requests with that key,
	 * and only the first caller's payload is kept.
	 */
	AllocateTextureSpace(format renderer.TextureFormat, width, height uint32, key string) *TextureSuballocation
	/** @brief Returns the region previously allocated for key, or nil. */
	FindAllocation(key string) *TextureSuballocation
	/** @brief Describes the atlas backing allocations of a format. */
	GetAtlasDesc(format renderer.TextureFormat) renderer.TextureDesc
	/** @brief Reserves space for mesh data in a shared buffer. */
	AllocateBufferSpace(size uint64) *BufferSuballocation
}
