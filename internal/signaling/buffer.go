package signaling

import (
	"slices"
	"sync"
)

// Buffer is a text box shared between the coordinator and the operator.
// Both sides read and overwrite it; observers are told about every change.
type Buffer struct {
	name string

	mu   sync.Mutex
	text string
	subs []func(string)
}

func newBuffer(name string) *Buffer {
	return &Buffer{name: name}
}

// Name identifies the buffer ("sdp" or "ice").
func (b *Buffer) Name() string { return b.name }

// Get returns the current text.
func (b *Buffer) Get() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Set replaces the text and notifies observers when it changed.
func (b *Buffer) Set(text string) {
	b.mu.Lock()
	if b.text == text {
		b.mu.Unlock()
		return
	}
	b.text = text
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(text)
	}
}

// update applies fn to the text atomically. fn returning false leaves the
// buffer untouched.
func (b *Buffer) update(fn func(string) (string, bool)) {
	b.mu.Lock()
	text, ok := fn(b.text)
	if !ok || text == b.text {
		b.mu.Unlock()
		return
	}
	b.text = text
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(text)
	}
}

// OnChange registers fn to run after every change, outside the lock.
func (b *Buffer) OnChange(fn func(text string)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}
