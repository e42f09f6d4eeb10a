package model

import (
	"sync/atomic"

	"github.com/spaghettifunk/aurora/engine/importer/gltf"
	"github.com/spaghettifunk/aurora/engine/renderer"
	"github.com/spaghettifunk/aurora/engine/resources"
)

/**
 * @brief Parameters for loading a model.
 */
type CreateInfo struct {
	FileName string
	/** @brief Index of the scene to instantiate, -1 for the default scene. */
	SceneIndex int
	/** @brief Shared cache for dedicated textures, may be nil. */
	Cache *resources.TextureCache
	/** @brief Atlas and buffer pool manager, may be nil. */
	Manager resources.ResourceManager
	/** @brief Edge size of the placeholder substituted for broken images. */
	PlaceholderSize uint32
	/** @brief Invoked for every material after conversion. */
	MaterialLoadCallback func(material *Material)
}

// Buffer slots of a model. The index buffer is always last.
const (
	BufferBasicVertices = iota
	BufferSkinVertices
	BufferIndices
	NumBuffers
)

// Strides of the two vertex streams in bytes.
const (
	BasicVertexStride = 40
	SkinVertexStride  = 32
)

/**
 * @brief One of the model's geometry buffers. Either a dedicated
 * device buffer or a range inside a shared pool. The source bytes are
 * parked in pending until PrepareGPUResources uploads them.
 */
type BufferSlot struct {
	Buffer        renderer.Buffer
	Suballocation *resources.BufferSuballocation
	Usage         renderer.BufferUsage
	Size          uint64
	pending       resources.DataSlot
}

/** @brief Reports whether the slot carries any geometry. */
func (b *BufferSlot) Valid() bool {
	return b.Buffer != nil || b.Suballocation != nil
}

/**
 * @brief A loaded scene with its node hierarchy, geometry, materials
 * and animations. GPU objects exist after construction but their data
 * is uploaded by PrepareGPUResources.
 */
type Model struct {
	/** @brief All nodes of the file in a flat arena, indices preserved. */
	Nodes []Node
	/** @brief Arena indices of the instantiated scene's root nodes. */
	RootNodes []int
	SceneName string

	Meshes     []Mesh
	Materials  []Material
	Cameras    []Camera
	Skins      []Skin
	Animations []Animation
	Textures   []TextureSlot
	Samplers   []renderer.Sampler
	Buffers    [NumBuffers]BufferSlot

	gpuDataInitialized atomic.Bool
	cache              *resources.TextureCache
	manager            resources.ResourceManager
}

/**
 * @brief Loads a model from a .gltf or .glb file.
 */
func LoadFromFile(device renderer.Device, ci CreateInfo) (*Model, error) {
	doc, err := gltf.ImportFile(ci.FileName, gltf.ImportOptions{Cache: ci.Cache})
	if err != nil {
		return nil, err
	}
	return NewFromDocument(device, doc, ci)
}

/**
 * @brief Releases the model's GPU objects and drops its texture cache
 * references.
 */
func (m *Model) Destroy() {
	for i := range m.Textures {
		if m.Textures[i].Handle != nil {
			m.Textures[i].Handle.Release()
			m.Textures[i].Handle = nil
		}
		m.Textures[i].Suballocation = nil
	}
	for _, s := range m.Samplers {
		if s != nil {
			s.Release()
		}
	}
	m.Samplers = nil
	for i := range m.Buffers {
		if m.Buffers[i].Buffer != nil {
			m.Buffers[i].Buffer.Release()
			m.Buffers[i].Buffer = nil
		}
		m.Buffers[i].Suballocation = nil
	}
}

/** @brief Reports whether GPU data upload already happened. */
func (m *Model) GPUDataInitialized() bool {
	return m.gpuDataInitialized.Load()
}
