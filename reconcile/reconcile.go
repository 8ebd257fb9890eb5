package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/kconfig"
	"github.com/fastkernel/kforge/log"
	"github.com/spf13/afero"
)

// Status is the outcome of a reconcile run.
type Status int

const (
	// InSync means the vendored file equals the derived config.
	InSync Status = iota
	// Written means the derived config was persisted.
	Written
	// Drift means the vendored file differs and was left alone.
	Drift
	// Missing means there is no vendored file and nothing was written.
	Missing
)

func (s Status) String() string {
	switch s {
	case InSync:
		return "in-sync"
	case Written:
		return "written"
	case Drift:
		return "drift"
	case Missing:
		return "missing"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result of Reconcile.
type Result struct {
	Status Status `json:"status"`
	// Records compares derived (A) against vendored (B).
	Records []kconfig.DiffRecord `json:"records"`
	// Overrides compares upstream (A) against derived (B).
	Overrides []kconfig.DiffRecord `json:"overrides"`
	Path      string               `json:"path"`
}

// ExitCode maps the status to a process exit code.
func (r Result) ExitCode() int {
	switch r.Status {
	case InSync, Written:
		return 0
	}
	return 1
}

// Reconciler derives the kernel config from an upstream template and
// compares it with the vendored copy. It holds no global state.
type Reconciler struct {
	Upstream     Source
	Fs           afero.Fs
	VendoredPath string
	Overrides    []kconfig.Override
	Expect       []kconfig.Override

	// Out receives the human readable report. Nil discards it.
	Out io.Writer
	// Format of the per-key report, see RenderRecords.
	Format string
}

func (r *Reconciler) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

// FetchUpstream retrieves and parses the upstream template.
func (r *Reconciler) FetchUpstream(ctx context.Context) (*kconfig.Snapshot, error) {
	log.Infof("fetching upstream config from %s", r.Upstream)
	return r.Upstream.Fetch(ctx)
}

// Derive applies the override rules to upstream.
func (r *Reconciler) Derive(upstream *kconfig.Snapshot) *kconfig.Snapshot {
	return kconfig.Derive(upstream, r.Overrides)
}

// LoadVendored parses the vendored file. found is false when it does not
// exist.
func (r *Reconciler) LoadVendored() (snap *kconfig.Snapshot, found bool, err error) {
	snap, _, found, err = r.loadVendored()
	return snap, found, err
}

// loadVendored also returns the bytes on disk, which decide whether the
// file is in sync.
func (r *Reconciler) loadVendored() (snap *kconfig.Snapshot, raw []byte, found bool, err error) {
	raw, err = afero.ReadFile(r.Fs, r.VendoredPath)
	if os.IsNotExist(err) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}

	snap, err = kconfig.ParseBytes(raw, r.VendoredPath)
	if err != nil {
		return nil, raw, true, err
	}
	return snap, raw, true, nil
}

// Persist writes derived over the vendored file atomically.
func (r *Reconciler) Persist(derived *kconfig.Snapshot) error {
	return writeFile(r.Fs, r.VendoredPath, derived.Bytes(), 0644)
}

// Reconcile runs the whole pipeline. Drift is reported through the result
// status, not as an error; errors are fetch, parse, expectation and write
// failures.
func (r *Reconciler) Reconcile(ctx context.Context, write bool) (Result, error) {
	res := Result{Path: r.VendoredPath}
	w := r.out()

	upstream, err := r.FetchUpstream(ctx)
	if err != nil {
		return res, err
	}
	derived := r.Derive(upstream)
	if err := kconfig.Require(derived, r.Expect); err != nil {
		return res, err
	}
	res.Overrides = kconfig.Diff(upstream, derived)

	ud, err := kconfig.UnifiedDiff(upstream, derived, constants.UpstreamLabel, constants.DerivedLabel)
	if err != nil {
		return res, err
	}
	if ud != "" {
		fmt.Fprintln(w, "==> Diff against upstream:")
		fmt.Fprint(w, ud)
	} else {
		fmt.Fprintln(w, "Derived configuration matches upstream with no differences.")
	}

	vendored, raw, found, err := r.loadVendored()
	if err != nil {
		return res, err
	}

	if !found {
		log.Warnf("Vendored config missing at %s", r.VendoredPath)
		res.Records = kconfig.Diff(derived, nil)
		if !write {
			fmt.Fprintf(w, "Vendored config missing at %s\n", r.VendoredPath)
			res.Status = Missing
			return res, nil
		}
		if err := r.Persist(derived); err != nil {
			return res, err
		}
		fmt.Fprintf(w, "Wrote derived configuration to %s\n", r.VendoredPath)
		res.Status = Written
		return res, nil
	}

	res.Records = kconfig.Diff(derived, vendored)
	want := derived.Bytes()
	if bytes.Equal(raw, want) {
		fmt.Fprintf(w, "Vendored config matches derived output at %s\n", r.VendoredPath)
		res.Status = InSync
		return res, nil
	}

	vd, err := kconfig.UnifiedDiffText(string(raw), string(want), "repo/"+baseName(r.VendoredPath), constants.DerivedLabel)
	if err != nil {
		return res, err
	}
	fmt.Fprintln(w, "==> Vendored config differs from derived output:")
	fmt.Fprint(w, vd)
	if len(res.Records) > 0 {
		fmt.Fprintln(w, "==> Changed options (vendored -> derived):")
		if err := RenderRecords(w, res.Records, r.Format); err != nil {
			return res, err
		}
	}

	if write {
		if err := r.Persist(derived); err != nil {
			return res, err
		}
		fmt.Fprintf(w, "Updated %s to match derived configuration\n", r.VendoredPath)
		res.Status = Written
		return res, nil
	}

	fmt.Fprintln(w, "Vendored config does not match derived output. Rerun with --write to update the file.")
	res.Status = Drift
	return res, nil
}
