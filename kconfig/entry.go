package kconfig

import (
	"errors"
	"fmt"
)

// State is the value state of a kernel config option.
type State int

const (
	// Absent means the key does not appear in a snapshot at all.
	Absent State = iota
	// Disabled is the "# KEY is not set" sentinel.
	Disabled
	// Enabled is a built-in option, KEY=y.
	Enabled
	// Module is a loadable option, KEY=m.
	Module
	// Value is any other KEY=VALUE assignment, string or numeric.
	Value
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	case Module:
		return "module"
	case Value:
		return "value"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state name, used by json and yaml output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "value":
		*s = Value
	case "absent":
		*s = Absent
	case "disabled", "unset", "n":
		*s = Disabled
	case "enabled", "y":
		*s = Enabled
	case "module", "m":
		*s = Module
	default:
		return fmt.Errorf("unknown config state %q", string(text))
	}
	return nil
}

// UnmarshalYAML accepts the same names as UnmarshalText except "absent":
// yaml only carries override rules, and a rule cannot remove a key.
func (s *State) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	if text == "absent" {
		return errors.New(`config state "absent" cannot be forced by a rule`)
	}
	return s.UnmarshalText([]byte(text))
}

// Entry is a single config option and its value state.
type Entry struct {
	Key   string `json:"key"`
	State State  `json:"state"`
	// Value is the raw text right of '=' ("y" and "m" for Enabled and
	// Module, quotes kept for strings). Empty for Disabled and Absent.
	Value string `json:"value,omitempty"`
}

// NewEntry classifies a KEY=VALUE assignment.
func NewEntry(key, value string) Entry {
	switch value {
	case "y":
		return Entry{Key: key, State: Enabled, Value: value}
	case "m":
		return Entry{Key: key, State: Module, Value: value}
	}
	return Entry{Key: key, State: Value, Value: value}
}

// DisabledEntry returns the "is not set" entry for key.
func DisabledEntry(key string) Entry {
	return Entry{Key: key, State: Disabled}
}

// AbsentEntry returns the entry used for a key missing from a snapshot.
func AbsentEntry(key string) Entry {
	return Entry{Key: key, State: Absent}
}

// Present reports whether the entry exists in its snapshot.
func (e Entry) Present() bool {
	return e.State != Absent
}

// Equal compares state and value, ignoring the key.
func (e Entry) Equal(o Entry) bool {
	return e.State == o.State && e.Value == o.Value
}

// String renders the entry as it appears in a config file. Absent entries
// render as the empty string.
func (e Entry) String() string {
	switch e.State {
	case Absent:
		return ""
	case Disabled:
		return "# " + e.Key + " is not set"
	}
	return e.Key + "=" + e.Value
}

// Describe is a short human form used in diff reports.
func (e Entry) Describe() string {
	switch e.State {
	case Absent:
		return "(absent)"
	case Disabled:
		return "is not set"
	}
	return e.Value
}
