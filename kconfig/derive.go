package kconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Override forces Key into a value state when deriving from upstream.
type Override struct {
	Key   string `yaml:"key" json:"key"`
	State State  `yaml:"state,omitempty" json:"state,omitempty"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
	// InsertAfter is the anchor key used when Key is missing upstream.
	InsertAfter string `yaml:"insert_after,omitempty" json:"insert_after,omitempty"`
}

// Set returns an override assigning value to key.
func Set(key, value string) Override {
	return Override{Key: key, Value: value}
}

// Unset returns an override forcing "# key is not set".
func Unset(key string) Override {
	return Override{Key: key, State: Disabled}
}

// After sets the insertion anchor.
func (o Override) After(anchor string) Override {
	o.InsertAfter = anchor
	return o
}

// Entry is the entry the override produces.
func (o Override) Entry() Entry {
	switch o.State {
	case Disabled:
		return DisabledEntry(o.Key)
	case Enabled:
		return NewEntry(o.Key, "y")
	case Module:
		return NewEntry(o.Key, "m")
	}
	return NewEntry(o.Key, o.Value)
}

// Validate checks that the rule renders a line the parser reads back as the
// same entry.
func (o Override) Validate() error {
	if o.Key == "" {
		return errors.New("has no key")
	}
	if strings.ContainsAny(o.Value, "\r\n") {
		return fmt.Errorf("%s: value spans several lines", o.Key)
	}
	if (o.State == Absent || o.State == Value) && o.Value == "" {
		return fmt.Errorf("%s: needs a state or a value", o.Key)
	}

	want := o.Entry()
	text := want.String()
	l, ok := ClassifyLine(text)
	if !ok || l.Entry.Key != o.Key || !l.Entry.Equal(want) {
		return fmt.Errorf("%s: renders %q, which is not a config line for that key", o.Key, text)
	}
	return nil
}

func (o Override) line() Line {
	e := o.Entry()
	if e.State == Disabled {
		return Line{Kind: KindDisabled, Entry: e}
	}
	return Line{Kind: KindKeyValue, Entry: e}
}

// Derive applies overrides to upstream in order and returns a new snapshot;
// upstream is not modified. A key already present is rewritten in place. A
// missing key goes right after its InsertAfter anchor, or at the end.
func Derive(upstream *Snapshot, overrides []Override) *Snapshot {
	lines := upstream.Lines()

	for _, o := range overrides {
		if i := findKey(lines, o.Key); i >= 0 {
			lines[i] = o.line()
			continue
		}
		at := len(lines)
		if o.InsertAfter != "" {
			if i := findKey(lines, o.InsertAfter); i >= 0 {
				at = i + 1
			}
		}
		lines = append(lines, Line{})
		copy(lines[at+1:], lines[at:])
		lines[at] = o.line()
	}

	b := newBuilder(upstream.Source())
	for _, l := range lines {
		// keys are unique by construction
		b.add(l)
	}
	return b.snapshot()
}

func findKey(lines []Line, key string) int {
	for i, l := range lines {
		if (l.Kind == KindDisabled || l.Kind == KindKeyValue) && l.Entry.Key == key {
			return i
		}
	}
	return -1
}

// Require checks that every expectation holds in s.
func Require(s *Snapshot, expect []Override) error {
	for _, want := range expect {
		got := s.Get(want.Key)
		if !got.Equal(want.Entry()) {
			return &ExpectationError{Key: want.Key, Want: want.Entry(), Got: got}
		}
	}
	return nil
}
