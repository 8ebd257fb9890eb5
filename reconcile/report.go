package reconcile

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fastkernel/kforge/kconfig"
	"github.com/olekukonko/tablewriter"
)

// Report formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

// ValidFormat reports whether f is a known report format.
func ValidFormat(f string) bool {
	switch f {
	case "", FormatText, FormatTable, FormatJSON:
		return true
	}
	return false
}

// RenderRecords writes the per-key differences of derived (A) against
// vendored (B) in the given format. An empty format means text, where '-'
// lines show the vendored side and '+' lines the derived side.
func RenderRecords(w io.Writer, records []kconfig.DiffRecord, format string) error {
	switch format {
	case "", FormatText:
		renderText(w, records)
	case FormatTable:
		renderTable(w, records)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []kconfig.DiffRecord{}
		}
		return enc.Encode(records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func renderText(w io.Writer, records []kconfig.DiffRecord) {
	for _, r := range records {
		fmt.Fprintf(w, "- %s\n", textLine(r.Key, r.B))
		fmt.Fprintf(w, "+ %s\n", textLine(r.Key, r.A))
	}
}

func textLine(key string, e kconfig.Entry) string {
	if !e.Present() {
		return key + " (absent)"
	}
	return e.String()
}

func renderTable(w io.Writer, records []kconfig.DiffRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Option", "Derived", "Vendored"})
	table.SetAutoWrapText(false)
	table.SetRowLine(true)

	for _, r := range records {
		table.Append([]string{r.Key, r.A.Describe(), r.B.Describe()})
	}
	table.Render()
}

func baseName(path string) string {
	return filepath.Base(path)
}
