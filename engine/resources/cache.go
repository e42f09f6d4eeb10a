package resources

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/renderer"
)

/**
 * @brief A shared reference to a device texture together with its
 * pending upload data. Handles are returned by the cache so that the
 * same source file is decoded once and shared by every model that
 * references it.
 */
type TextureHandle struct {
	texture  renderer.Texture
	payload  PayloadSlot
	refs     atomic.Int64
	released atomic.Bool
}

/**
 * @brief Creates a handle owning the given texture with one reference.
 */
func NewTextureHandle(texture renderer.Texture) *TextureHandle {
	h := &TextureHandle{texture: texture}
	h.refs.Store(1)
	return h
}

/** @brief The device texture this handle refers to. */
func (h *TextureHandle) Texture() renderer.Texture { return h.texture }

/** @brief The deferred upload slot for this texture. */
func (h *TextureHandle) Payload() *PayloadSlot { return &h.payload }

/**
 * @brief Removes and returns the pending upload data, if any.
 */
func (h *TextureHandle) TakePayload() *PendingPayload { return h.payload.Take() }

/**
 * @brief Acquires an additional reference. Returns false when all
 * references were already dropped and the handle is dead.
 */
func (h *TextureHandle) Lock() bool {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return false
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

/**
 * @brief Drops one reference. When the last reference is dropped the
 * device texture is released and any pending payload is discarded.
 */
func (h *TextureHandle) Release() {
	if h.refs.Add(-1) > 0 {
		return
	}
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	if p := h.payload.Take(); p != nil && p.Staging != nil {
		p.Staging.Release()
	}
	if h.texture != nil {
		h.texture.Release()
	}
}

/** @brief Reports whether the handle still holds live references. */
func (h *TextureHandle) Alive() bool { return h.refs.Load() > 0 }

/**
 * @brief Canonicalizes a source path into a cache key so that
 * different spellings of the same file share one entry.
 */
func CacheKey(path string) string {
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

/**
 * @brief TextureCache maps source file keys to shared texture handles.
 * Entries do not keep their handles alive. A lookup that finds a dead
 * handle removes it and reports a miss, so a caller racing with the
 * last Release simply reloads the texture.
 */
type TextureCache struct {
	mu       sync.Mutex
	textures map[string]*TextureHandle
}

func NewTextureCache() *TextureCache {
	return &TextureCache{
		textures: make(map[string]*TextureHandle),
	}
}

/**
 * @brief Returns a locked handle for key, or nil on a miss. The caller
 * owns the acquired reference and must Release it.
 */
func (c *TextureCache) Lookup(key string) *TextureHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.textures[key]
	if !ok {
		return nil
	}
	if !h.Lock() {
		delete(c.textures, key)
		core.LogDebug("texture cache: reaped stale entry %q", key)
		return nil
	}
	return h
}

/**
 * @brief Registers the handle under key. If another live handle won the
 * race for the same key, the existing one is locked and returned and
 * the caller's handle is left untouched. Otherwise the given handle is
 * stored and returned.
 */
func (c *TextureCache) Insert(key string, h *TextureHandle) *TextureHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.textures[key]; ok {
		if prev.Lock() {
			return prev
		}
		delete(c.textures, key)
	}
	c.textures[key] = h
	return h
}

/**
 * @brief Drops the cache entry for key. Live handles held by models
 * remain valid; the next Lookup for the key misses and reloads.
 */
func (c *TextureCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.textures, key)
}

/** @brief Number of entries currently registered, dead ones included. */
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}
