package importer

import "github.com/spaghettifunk/aurora/engine/assets"

/**
 * @brief Document is the parser-neutral form of a loaded scene file.
 * The model builder consumes this instead of a parser's own types so
 * that different file formats can feed the same pipeline.
 */
type Document struct {
	/** @brief Node index lists, one per scene. */
	Scenes []Scene
	/** @brief Index of the scene to display by default, -1 when unset. */
	DefaultScene int

	Nodes      []Node
	Meshes     []Mesh
	Materials  []Material
	Images     []Image
	Samplers   []Sampler
	Textures   []Texture
	Skins      []Skin
	Animations []Animation
	Cameras    []Camera

	ExtensionsUsed []string
}

type Scene struct {
	Name  string
	Nodes []int
}

/**
 * @brief A scene graph node. Exactly one of Matrix or the TRS factors
 * is typically present; nil means the factor is absent and treated as
 * identity. Object indices are -1 when the node has no such object.
 */
type Node struct {
	Name        string
	Children    []int
	Translation *[3]float32
	Rotation    *[4]float32
	Scale       *[3]float32
	Matrix      *[16]float32
	Mesh        int
	Skin        int
	Camera      int
}

type Mesh struct {
	Name       string
	Primitives []Primitive
}

// PrimitiveMode names the primitive topologies. The zero value is
// triangles, matching the file format default.
type PrimitiveMode uint8

const (
	ModeTriangles PrimitiveMode = iota
	ModePoints
	ModeLines
	ModeLineLoop
	ModeLineStrip
	ModeTriangleStrip
	ModeTriangleFan
)

/**
 * @brief One draw call worth of geometry, with attributes already
 * unpacked from their accessors.
 */
type Primitive struct {
	Positions  [][3]float32
	Normals    [][3]float32
	TexCoords0 [][2]float32
	TexCoords1 [][2]float32
	Joints0    [][4]uint16
	Weights0   [][4]float32
	Indices    []uint32
	Material   int
	Mode       PrimitiveMode

	HasBounds bool
	BoundsMin [3]float32
	BoundsMax [3]float32
}

/** @brief VertexCount returns the number of vertices in the primitive. */
func (p *Primitive) VertexCount() int { return len(p.Positions) }

/**
 * @brief A texture binding inside a material: the texture index plus
 * the UV set that addresses it.
 */
type TextureRef struct {
	Index    int
	TexCoord int
}

/**
 * @brief A material with its texture bindings and scalar factors kept
 * by attribute name so extensions can contribute without changing the
 * struct.
 */
type Material struct {
	Name string
	/** @brief Texture bindings keyed by attribute name, e.g. "baseColor". */
	Textures map[string]TextureRef
	/** @brief Scalar factors keyed by attribute name, e.g. "metallic". */
	Factors map[string]float32
	/** @brief Color factors keyed by attribute name, e.g. "baseColor". */
	ColorFactors map[string][4]float32
	/** @brief One of "OPAQUE", "MASK" or "BLEND". */
	AlphaMode   string
	AlphaCutoff float32
	DoubleSided bool
	/** @brief Raw extension objects keyed by extension name. */
	Extensions map[string]map[string]any
}

/**
 * @brief A source image, either decoded to pixels or kept as a raw
 * GPU-native container.
 */
type Image struct {
	Name string
	URI  string
	/** @brief Key identifying this image in the shared texture cache. */
	CacheKey string
	/** @brief The on-disk container the image arrived in. */
	Container assets.ContainerFormat
	/** @brief Decoded pixels, nil for GPU-native containers or cache hits. */
	Pixels *assets.ImageData
	/** @brief The undecoded file bytes for GPU-native containers. */
	Raw []byte
}

// FilterMode is a parser-neutral sampling filter.
type FilterMode uint8

const (
	FilterModeDefault FilterMode = iota
	FilterModeNearest
	FilterModeLinear
)

// WrapMode is a parser-neutral texture addressing mode.
type WrapMode uint8

const (
	WrapModeRepeat WrapMode = iota
	WrapModeMirroredRepeat
	WrapModeClampToEdge
)

type Sampler struct {
	MagFilter FilterMode
	MinFilter FilterMode
	WrapS     WrapMode
	WrapT     WrapMode
}

type Texture struct {
	/** @brief Index into Images, -1 when absent. */
	Source int
	/** @brief Index into Samplers, -1 for the default sampler. */
	Sampler int
}

type Skin struct {
	Name string
	/** @brief Node indices acting as joints, in joint order. */
	Joints []int
	/** @brief One inverse bind matrix per joint, column layout as stored. */
	InverseBindMatrices [][16]float32
}

// AnimationPath names the node property an animation channel drives.
type AnimationPath uint8

const (
	PathTranslation AnimationPath = iota
	PathRotation
	PathScale
	PathWeights
)

// InterpolationType names how keyframes are blended.
type InterpolationType uint8

const (
	InterpolationLinear InterpolationType = iota
	InterpolationStep
	InterpolationCubicSpline
)

/**
 * @brief Keyframe data shared by one or more channels. Outputs are
 * widened to four components; translation and scale use XYZ.
 */
type AnimationSampler struct {
	Inputs        []float32
	Outputs       [][4]float32
	Interpolation InterpolationType
}

type AnimationChannel struct {
	Sampler int
	Node    int
	Path    AnimationPath
}

type Animation struct {
	Name     string
	Samplers []AnimationSampler
	Channels []AnimationChannel
}

type Camera struct {
	Name string
	/** @brief "perspective" or "orthographic". */
	Type        string
	AspectRatio float32
	YFov        float32
	XMag        float32
	YMag        float32
	ZNear       float32
	ZFar        float32
}
