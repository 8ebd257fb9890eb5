package kconfig

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
)

// Kind tags a line of a config document.
type Kind int

const (
	// KindBlank is an empty line.
	KindBlank Kind = iota
	// KindComment is a '#' line other than the not-set sentinel.
	KindComment
	// KindDisabled is "# KEY is not set".
	KindDisabled
	// KindKeyValue is KEY=VALUE.
	KindKeyValue
)

// Line is one classified line. Raw holds the text of blank and comment
// lines; Entry is set for KindDisabled and KindKeyValue.
type Line struct {
	Kind  Kind
	Raw   string
	Entry Entry
}

// String renders the line without its terminator.
func (l Line) String() string {
	switch l.Kind {
	case KindDisabled, KindKeyValue:
		return l.Entry.String()
	}
	return l.Raw
}

var (
	disabledRe = regexp.MustCompile(`^# ([A-Za-z0-9_]+) is not set$`)
	keyValueRe = regexp.MustCompile(`^([A-Za-z0-9_]+)=(.*)$`)
)

// ClassifyLine applies the grammar to a single line. ok is false when the
// line matches no production.
func ClassifyLine(text string) (line Line, ok bool) {
	text = strings.TrimSuffix(text, "\r")
	trimmed := strings.TrimRight(text, " \t")

	if trimmed == "" {
		return Line{Kind: KindBlank, Raw: text}, true
	}
	if m := disabledRe.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: KindDisabled, Entry: DisabledEntry(m[1])}, true
	}
	if strings.HasPrefix(trimmed, "#") {
		return Line{Kind: KindComment, Raw: text}, true
	}
	if m := keyValueRe.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: KindKeyValue, Entry: NewEntry(m[1], m[2])}, true
	}
	return Line{}, false
}

// Parse reads a kernel config document. source names the document in
// errors.
func Parse(r io.Reader, source string) (*Snapshot, error) {
	b := newBuilder(source)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		text := scanner.Text()
		line, ok := ClassifyLine(text)
		if !ok {
			return nil, &ParseError{Source: source, Line: n, Text: text, Reason: "unrecognized line"}
		}
		if err := b.add(line); err != nil {
			return nil, &ParseError{Source: source, Line: n, Text: text, Reason: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Source: source, Line: n + 1, Reason: err.Error()}
	}
	return b.snapshot(), nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte, source string) (*Snapshot, error) {
	return Parse(bytes.NewReader(data), source)
}
