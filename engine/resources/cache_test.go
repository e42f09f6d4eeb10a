package resources

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aurora/engine/renderer"
)

type fakeTexture struct {
	desc     renderer.TextureDesc
	released bool
}

func (t *fakeTexture) Desc() renderer.TextureDesc { return t.desc }
func (t *fakeTexture) Release()                   { t.released = true }

func TestCacheKeyCanonicalization(t *testing.T) {
	assert.Equal(t, CacheKey("assets/textures/wood.png"), CacheKey("assets//textures/./wood.png"))
	assert.Equal(t, CacheKey("Assets/Wood.PNG"), CacheKey("assets/wood.png"))
}

func TestCacheLookupMiss(t *testing.T) {
	c := NewTextureCache()
	assert.Nil(t, c.Lookup("nope"))
}

func TestCacheInsertAndLookup(t *testing.T) {
	c := NewTextureCache()
	tex := &fakeTexture{}
	h := NewTextureHandle(tex)

	require.Same(t, h, c.Insert("key", h))

	got := c.Lookup("key")
	require.Same(t, h, got)
	// the lookup acquired a second reference
	got.Release()
	assert.True(t, h.Alive())
	assert.False(t, tex.released)

	h.Release()
	assert.False(t, h.Alive())
	assert.True(t, tex.released)
}

func TestCacheReapsStaleEntries(t *testing.T) {
	c := NewTextureCache()
	tex := &fakeTexture{}
	h := NewTextureHandle(tex)
	c.Insert("key", h)

	h.Release()
	require.False(t, h.Alive())

	assert.Equal(t, 1, c.Len())
	assert.Nil(t, c.Lookup("key"))
	assert.Equal(t, 0, c.Len())
}

func TestCacheInsertKeepsLiveWinner(t *testing.T) {
	c := NewTextureCache()
	first := NewTextureHandle(&fakeTexture{})
	second := NewTextureHandle(&fakeTexture{})

	require.Same(t, first, c.Insert("key", first))

	shared := c.Insert("key", second)
	require.Same(t, first, shared)
	// the losing handle must be dropped by the caller
	second.Release()
	shared.Release()

	assert.True(t, first.Alive())
}

func TestCacheConcurrentInsertSingleSurvivor(t *testing.T) {
	c := NewTextureCache()
	const goroutines = 32

	handles := make([]*TextureHandle, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			h := NewTextureHandle(&fakeTexture{desc: renderer.TextureDesc{Name: fmt.Sprintf("%d", n)}})
			shared := c.Insert("key", h)
			if shared != h {
				h.Release()
			}
			handles[n] = shared
		}(i)
	}
	wg.Wait()

	winner := c.Lookup("key")
	require.NotNil(t, winner)
	for _, h := range handles {
		assert.Same(t, winner, h)
	}
	assert.Equal(t, 1, c.Len())
}

func TestPayloadSlotSingleAssignment(t *testing.T) {
	var slot PayloadSlot
	first := &PendingPayload{Levels: []MipLevel{{Width: 4, Height: 4}}}

	require.True(t, slot.Attach(first))
	assert.False(t, slot.Attach(&PendingPayload{}))
	assert.True(t, slot.Pending())
}

func TestPayloadSlotTakeOnce(t *testing.T) {
	var slot PayloadSlot
	payload := &PendingPayload{Levels: []MipLevel{{Width: 4, Height: 4}}}
	slot.Attach(payload)

	const goroutines = 16
	taken := make(chan *PendingPayload, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			taken <- slot.Take()
		}()
	}
	wg.Wait()
	close(taken)

	got := 0
	for p := range taken {
		if p != nil {
			require.Same(t, payload, p)
			got++
		}
	}
	assert.Equal(t, 1, got)
	assert.False(t, slot.Pending())
}

func TestReleaseDiscardsStagingPayload(t *testing.T) {
	staging := &fakeTexture{}
	tex := &fakeTexture{}
	h := NewTextureHandle(tex)
	h.Payload().Attach(&PendingPayload{Staging: staging})

	h.Release()

	assert.True(t, staging.released)
	assert.True(t, tex.released)
}

func TestDataSlot(t *testing.T) {
	var slot DataSlot
	data := []byte{1, 2, 3}

	require.True(t, slot.Attach(data))
	assert.False(t, slot.Attach([]byte{4}))
	assert.Equal(t, data, slot.Take())
	assert.Nil(t, slot.Take())
}
