package resources

import (
	"sync/atomic"

	"github.com/spaghettifunk/aurora/engine/renderer"
)

/**
 * @brief Pixel data for a single mip level, ready to be uploaded.
 */
type MipLevel struct {
	Width  uint32
	Height uint32
	/** @brief Byte stride of one row of blocks. */
	Stride uint32
	Data   []byte
}

/**
 * @brief Decoded texture data waiting to be copied into its device
 * texture. Either Levels or Staging is populated.
 */
type PendingPayload struct {
	/** @brief CPU-side mip data, uploaded level by level. */
	Levels []MipLevel
	/** @brief A pre-filled staging texture, copied mip by mip. */
	Staging renderer.Texture
}

/** @brief Reports whether the payload carries any data to upload. */
func (p *PendingPayload) HasData() bool {
	return p != nil && (len(p.Levels) > 0 || p.Staging != nil)
}

/**
 * @brief A single-assignment slot holding a PendingPayload until it is
 * consumed. Take returns the payload exactly once even under
 * concurrent callers. Attach after the first assignment is a no-op so
 * the consumer never observes two payloads for the same resource.
 */
type PayloadSlot struct {
	payload atomic.Pointer[PendingPayload]
	sealed  atomic.Bool
}

/**
 * @brief Stores the payload if the slot has never been written.
 * Returns false when a payload was already attached or taken.
 */
func (s *PayloadSlot) Attach(p *PendingPayload) bool {
	if !s.sealed.CompareAndSwap(false, true) {
		return false
	}
	s.payload.Store(p)
	return true
}

/**
 * @brief Removes and returns the payload, leaving the slot empty.
 * Returns nil when no payload is pending.
 */
func (s *PayloadSlot) Take() *PendingPayload {
	return s.payload.Swap(nil)
}

/** @brief Reports whether a payload is currently pending. */
func (s *PayloadSlot) Pending() bool {
	return s.payload.Load() != nil
}

type pendingData struct {
	bytes []byte
}

/**
 * @brief Like PayloadSlot but for raw mesh bytes waiting to be written
 * into a shared buffer range.
 */
type DataSlot struct {
	data   atomic.Pointer[pendingData]
	sealed atomic.Bool
}

/**
 * @brief Stores the bytes if the slot has never been written. Returns
 * false when data was already attached or taken.
 */
func (s *DataSlot) Attach(b []byte) bool {
	if !s.sealed.CompareAndSwap(false, true) {
		return false
	}
	s.data.Store(&pendingData{bytes: b})
	return true
}

/**
 * @brief Removes and returns the bytes, leaving the slot empty.
 * Returns nil when nothing is pending.
 */
func (s *DataSlot) Take() []byte {
	if d := s.data.Swap(nil); d != nil {
		return d.bytes
	}
	return nil
}

/** @brief Reports whether data is currently pending. */
func (s *DataSlot) Pending() bool {
	return s.data.Load() != nil
}
