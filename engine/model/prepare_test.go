package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aurora/engine/assets"
	"github.com/spaghettifunk/aurora/engine/importer"
	"github.com/spaghettifunk/aurora/engine/renderer"
	"github.com/spaghettifunk/aurora/engine/resources"
)

func texturedDocument() *importer.Document {
	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = 200
	}
	return &importer.Document{
		DefaultScene: 0,
		Scenes:       []importer.Scene{{Nodes: []int{0}}},
		Nodes: []importer.Node{{
			Name: "quad",
			Mesh: -1, Skin: -1, Camera: -1,
		}},
		Images: []importer.Image{{
			Name:     "shared",
			CacheKey: "textures/shared.png",
			Pixels: &assets.ImageData{
				Width:      2,
				Height:     2,
				Components: 4,
				BitDepth:   8,
				Pixels:     pixels,
			},
		}},
		Textures: []importer.Texture{{Source: 0, Sampler: -1}},
	}
}

func TestPrepareUploadsOnceAndIsIdempotent(t *testing.T) {
	device := renderer.NewNullDevice()
	m, err := NewFromDocument(device, texturedDocument(), CreateInfo{SceneIndex: -1})
	require.NoError(t, err)
	defer m.Destroy()

	ctx := renderer.NewNullContext()
	require.False(t, m.GPUDataInitialized())

	m.PrepareGPUResources(device, ctx)
	assert.True(t, m.GPUDataInitialized())
	assert.Equal(t, uint64(1), ctx.TextureUpdates)
	// a single base level for a multi mip texture triggers device mips
	assert.Equal(t, uint64(1), ctx.MipGenerations)
	assert.Equal(t, uint64(1), ctx.Transitions)

	m.PrepareGPUResources(device, ctx)
	assert.Equal(t, uint64(1), ctx.TextureUpdates)
	assert.Equal(t, uint64(1), ctx.MipGenerations)
}

func TestPrepareSharesCachedTexture(t *testing.T) {
	device := renderer.NewNullDevice()
	cache := resources.NewTextureCache()

	first, err := NewFromDocument(device, texturedDocument(), CreateInfo{SceneIndex: -1, Cache: cache})
	require.NoError(t, err)
	defer first.Destroy()
	second, err := NewFromDocument(device, texturedDocument(), CreateInfo{SceneIndex: -1, Cache: cache})
	require.NoError(t, err)
	defer second.Destroy()

	require.Same(t, first.Textures[0].Handle, second.Textures[0].Handle)

	ctxA := renderer.NewNullContext()
	ctxB := renderer.NewNullContext()
	first.PrepareGPUResources(device, ctxA)
	second.PrepareGPUResources(device, ctxB)

	// the shared payload is uploaded exactly once
	assert.Equal(t, uint64(1), ctxA.TextureUpdates+ctxB.TextureUpdates)
}

func TestPrepareMaterializesSharedTextureOnce(t *testing.T) {
	device := renderer.NewNullDevice()
	cache := resources.NewTextureCache()
	const goroutines = 8

	contexts := make([]*renderer.NullContext, goroutines)
	models := make([]*Model, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m, err := NewFromDocument(device, texturedDocument(), CreateInfo{SceneIndex: -1, Cache: cache})
			if err != nil {
				t.Error(err)
				return
			}
			ctx := renderer.NewNullContext()
			m.PrepareGPUResources(device, ctx)
			contexts[n] = ctx
			models[n] = m
		}(i)
	}
	wg.Wait()

	var totalUpdates, totalMips uint64
	for _, ctx := range contexts {
		require.NotNil(t, ctx)
		totalUpdates += ctx.TextureUpdates
		totalMips += ctx.MipGenerations
	}
	assert.Equal(t, uint64(1), totalUpdates)
	assert.Equal(t, uint64(1), totalMips)
	assert.Equal(t, 1, cache.Len())

	for _, m := range models {
		m.Destroy()
	}
	// all references dropped, the next lookup reaps the entry
	assert.Nil(t, cache.Lookup(resources.CacheKey("textures/shared.png")))
}

func TestPrepareUploadsGeometryBuffers(t *testing.T) {
	device := renderer.NewNullDevice()
	m, err := NewFromDocument(device, hierarchyDocument(), CreateInfo{SceneIndex: -1})
	require.NoError(t, err)
	defer m.Destroy()

	require.True(t, m.Buffers[BufferBasicVertices].Valid())
	require.False(t, m.Buffers[BufferSkinVertices].Valid())
	require.True(t, m.Buffers[BufferIndices].Valid())
	assert.Equal(t, uint64(2*BasicVertexStride), m.Buffers[BufferBasicVertices].Size)
	assert.Equal(t, uint64(2*4), m.Buffers[BufferIndices].Size)

	ctx := renderer.NewNullContext()
	m.PrepareGPUResources(device, ctx)

	assert.Equal(t, uint64(2), ctx.BufferUpdates)
	// two buffer transitions, no textures in this model
	assert.Equal(t, uint64(2), ctx.Transitions)
}

func TestPlaceholderSubstitution(t *testing.T) {
	doc := texturedDocument()
	doc.Images[0].Pixels = nil
	doc.Images[0].CacheKey = ""

	device := renderer.NewNullDevice()
	m, err := NewFromDocument(device, doc, CreateInfo{SceneIndex: -1, PlaceholderSize: 16})
	require.NoError(t, err)
	defer m.Destroy()

	require.True(t, m.Textures[0].Valid())
	desc := m.Textures[0].Handle.Texture().Desc()
	assert.Equal(t, uint32(16), desc.Width)
	assert.Equal(t, uint32(16), desc.Height)
}

func TestModelWithoutCacheGetsPrivateTextures(t *testing.T) {
	device := renderer.NewNullDevice()

	first, err := NewFromDocument(device, texturedDocument(), CreateInfo{SceneIndex: -1})
	require.NoError(t, err)
	defer first.Destroy()
	second, err := NewFromDocument(device, texturedDocument(), CreateInfo{SceneIndex: -1})
	require.NoError(t, err)
	defer second.Destroy()

	assert.NotSame(t, first.Textures[0].Handle, second.Textures[0].Handle)
}
