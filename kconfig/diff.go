package kconfig

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DiffRecord is a key whose entry differs between two snapshots.
type DiffRecord struct {
	Key string `json:"key"`
	A   Entry  `json:"a"`
	B   Entry  `json:"b"`
}

// Swap returns the record with sides exchanged.
func (r DiffRecord) Swap() DiffRecord {
	return DiffRecord{Key: r.Key, A: r.B, B: r.A}
}

// Diff lists every key whose entry differs between a and b, including keys
// present on one side only. Keys appear in the order first seen scanning a
// then b.
func Diff(a, b *Snapshot) []DiffRecord {
	var out []DiffRecord
	seen := map[string]bool{}

	visit := func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		ea, eb := a.Get(key), b.Get(key)
		if !ea.Equal(eb) {
			out = append(out, DiffRecord{Key: key, A: ea, B: eb})
		}
	}

	for _, k := range a.Keys() {
		visit(k)
	}
	for _, k := range b.Keys() {
		visit(k)
	}
	return out
}

// UnifiedDiff renders a line diff of the serialized documents with three
// lines of context. It is empty when both serialize identically.
func UnifiedDiff(a, b *Snapshot, fromLabel, toLabel string) (string, error) {
	return UnifiedDiffText(a.String(), b.String(), fromLabel, toLabel)
}

// UnifiedDiffText is UnifiedDiff over raw document texts.
func UnifiedDiffText(a, b, fromLabel, toLabel string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	})
}
