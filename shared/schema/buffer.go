// Package schema holds the editable schema text of a connection form and
// reconciles it against schema files imported by the user.
package schema

import "sync"

// Buffer holds the schema text currently shown in the form. SetText is the
// only mutator. No validation is done here.
type Buffer struct {
	mu   sync.RWMutex
	text string
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// CurrentText returns the current schema text.
func (b *Buffer) CurrentText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the schema text.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}
