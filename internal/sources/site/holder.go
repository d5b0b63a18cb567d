package site

import "sync/atomic"

// Holder publishes the current site content to request handlers. Reloads
// swap the whole pointer, readers never see a partial update.
type Holder struct {
	current atomic.Pointer[Content]
}

func NewHolder(initial *Content) *Holder {
	h := &Holder{}
	if initial == nil {
		initial = DefaultContent()
	}
	h.current.Store(initial)
	return h
}

func (h *Holder) Get() *Content { return h.current.Load() }

func (h *Holder) Set(c *Content) {
	if c != nil {
		h.current.Store(c)
	}
}
