package renderer

// FilterType enumerates texture sampling filters.
type FilterType uint8

const (
	FilterNearest FilterType = iota
	FilterLinear
)

// AddressMode enumerates texture coordinate wrapping behavior.
type AddressMode uint8

const (
	AddressWrap AddressMode = iota
	AddressMirror
	AddressClamp
)

/**
 * @brief Describes how a texture should be sampled.
 */
type SamplerDesc struct {
	MinFilter FilterType
	MagFilter FilterType
	MipFilter FilterType
	AddressU  AddressMode
	AddressV  AddressMode
	AddressW  AddressMode
}

/** @brief Trilinear sampling with wrapping, the default for model textures. */
func SamplerLinearWrap() SamplerDesc {
	return SamplerDesc{
		MinFilter: FilterLinear,
		MagFilter: FilterLinear,
		MipFilter: FilterLinear,
		AddressU:  AddressWrap,
		AddressV:  AddressWrap,
		AddressW:  AddressWrap,
	}
}

/**
 * @brief Describes a texture to be created on the device.
 */
type TextureDesc struct {
	Name      string
	Width     uint32
	Height    uint32
	ArraySize uint32
	MipLevels uint32
	Format    TextureFormat
	/** @brief When set the device may be asked to generate the mip chain. */
	GenerateMips bool
}

// BufferUsage distinguishes vertex and index buffers.
type BufferUsage uint8

const (
	BufferUsageVertex BufferUsage = iota
	BufferUsageIndex
)

/**
 * @brief Describes a buffer to be created on the device.
 */
type BufferDesc struct {
	Name  string
	Size  uint64
	Usage BufferUsage
}

// ResourceState describes the usage state a resource is transitioned to.
type ResourceState uint8

const (
	ResourceStateUnknown ResourceState = iota
	ResourceStateShaderResource
	ResourceStateVertexBuffer
	ResourceStateIndexBuffer
	ResourceStateCopyDest
)

/**
 * @brief A pending state transition for a texture or buffer. Exactly one
 * of Texture and Buffer is set.
 */
type StateTransition struct {
	Texture  Texture
	Buffer   Buffer
	OldState ResourceState
	NewState ResourceState
}

/**
 * @brief A region of a texture mip level updated by Context.UpdateTexture.
 */
type Box struct {
	MinX, MaxX uint32
	MinY, MaxY uint32
}

/**
 * @brief Source data for a texture region update.
 */
type SubResourceData struct {
	Data   []byte
	Stride uint32
}

// Texture is a device texture. Release frees the device object.
type Texture interface {
	Desc() TextureDesc
	Release()
}

// Buffer is a device buffer. Release frees the device object.
type Buffer interface {
	Desc() BufferDesc
	Release()
}

// Sampler is a device sampler object.
type Sampler interface {
	Desc() SamplerDesc
	Release()
}

/**
 * @brief Device creates GPU objects. Creation is safe to call from any
 * goroutine. CreateTexture accepts optional initial data with one
 * entry per mip level; pass nil to create the texture empty.
 */
type Device interface {
	CreateTexture(desc TextureDesc, initData []SubResourceData) (Texture, error)
	CreateBuffer(desc BufferDesc) (Buffer, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
}

/**
 * @brief Context records resource updates and transitions. A context is
 * owned by a single goroutine at a time.
 */
type Context interface {
	UpdateTexture(tex Texture, mipLevel, slice uint32, region Box, data SubResourceData)
	UpdateBuffer(buf Buffer, offset, size uint64, data []byte)
	CopyTexture(src, dst Texture, mipLevel, slice, dstX, dstY uint32)
	GenerateMips(tex Texture)
	TransitionResourceStates(transitions []StateTransition)
}
