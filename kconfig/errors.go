package kconfig

import "fmt"

// FetchError is returned when the upstream template cannot be retrieved or
// its content is not a config document.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a line that matches no grammar production, or a key
// defined twice.
type ParseError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<input>"
	}
	return fmt.Sprintf("%s:%d: %s: %q", src, e.Line, e.Reason, e.Text)
}

// WriteError is returned when the derived config cannot be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ExpectationError is returned by Require when a derived option does not
// hold its mandated value.
type ExpectationError struct {
	Key  string
	Want Entry
	Got  Entry
}

func (e *ExpectationError) Error() string {
	if !e.Got.Present() {
		return fmt.Sprintf("derived configuration is missing %s", e.Key)
	}
	return fmt.Sprintf("derived configuration has unexpected %s value: %s (want %s)",
		e.Key, e.Got.String(), e.Want.String())
}
