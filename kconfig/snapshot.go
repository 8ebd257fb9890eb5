package kconfig

import (
	"bytes"
	"fmt"
	"io"
)

// Snapshot is an ordered, immutable view of a config document. Keys are
// unique within a snapshot.
type Snapshot struct {
	source string
	lines  []Line
	index  map[string]int
}

type builder struct {
	source string
	lines  []Line
	index  map[string]int
}

func newBuilder(source string) *builder {
	return &builder{source: source, index: map[string]int{}}
}

func (b *builder) add(l Line) error {
	if l.Kind == KindDisabled || l.Kind == KindKeyValue {
		if _, dup := b.index[l.Entry.Key]; dup {
			return fmt.Errorf("duplicate key %s", l.Entry.Key)
		}
		b.index[l.Entry.Key] = len(b.lines)
	}
	b.lines = append(b.lines, l)
	return nil
}

func (b *builder) snapshot() *Snapshot {
	return &Snapshot{source: b.source, lines: b.lines, index: b.index}
}

// NewSnapshot builds a snapshot from already classified lines.
func NewSnapshot(source string, lines []Line) (*Snapshot, error) {
	b := newBuilder(source)
	for i, l := range lines {
		if err := b.add(l); err != nil {
			return nil, &ParseError{Source: source, Line: i + 1, Text: l.String(), Reason: err.Error()}
		}
	}
	return b.snapshot(), nil
}

// Source names where the snapshot was read from.
func (s *Snapshot) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Len is the number of keys.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.index)
}

// Lines returns a copy of the document lines.
func (s *Snapshot) Lines() []Line {
	if s == nil {
		return nil
	}
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Get returns the entry for key, or an Absent entry.
func (s *Snapshot) Get(key string) Entry {
	if s != nil {
		if i, ok := s.index[key]; ok {
			return s.lines[i].Entry
		}
	}
	return AbsentEntry(key)
}

// Has reports whether key is present (set or disabled).
func (s *Snapshot) Has(key string) bool {
	return s.Get(key).Present()
}

// Keys lists keys in document order.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.index))
	for _, l := range s.lines {
		if l.Kind == KindDisabled || l.Kind == KindKeyValue {
			keys = append(keys, l.Entry.Key)
		}
	}
	return keys
}

// Entries lists entries in document order.
func (s *Snapshot) Entries() []Entry {
	keys := s.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.Get(k))
	}
	return out
}

// Equal reports whether both snapshots serialize to the same document.
func (s *Snapshot) Equal(o *Snapshot) bool {
	a, b := s.Lines(), o.Lines()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// WriteTo serializes the document, one '\n' terminated line per entry.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if s == nil {
		return 0, nil
	}
	for _, l := range s.lines {
		n, err := io.WriteString(w, l.String()+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes is the serialized document.
func (s *Snapshot) Bytes() []byte {
	var buf bytes.Buffer
	s.WriteTo(&buf)
	return buf.Bytes()
}

func (s *Snapshot) String() string {
	return string(s.Bytes())
}
