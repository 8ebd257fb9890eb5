package build

import (
	"context"
	"fmt"
	"strings"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/engine"
	"github.com/pkg/errors"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// ResourceError reports a builder allocation below the minimum.
type ResourceError struct {
	Allocated   engine.Resources
	Host        engine.Resources
	Recommended engine.Resources
	Issues      []string
}

func (e *ResourceError) Error() string {
	lines := []string{"Container builder resources are below the recommended minimum:"}
	lines = append(lines, e.Issues...)
	lines = append(lines,
		"",
		"Recommended commands:",
		"  container builder stop",
		fmt.Sprintf("  container builder start --cpus %d --memory %s", e.Recommended.CPUs, FormatMemoryFlag(e.Recommended.Memory)),
		"",
		fmt.Sprintf("Host limits: CPUs=%d, Memory=%s", e.Host.CPUs, formatGiB(e.Host.Memory)),
		"",
		"Rerun with --ignore-resource-check to bypass this validation.",
	)
	return strings.Join(lines, "\n")
}

// CheckResources fails with a *ResourceError when the engine has fewer than
// constants.MinBuilderCPUs CPUs or constants.MinBuilderMemory bytes.
func CheckResources(ctx context.Context, eng engine.Engine, host Host) error {
	alloc, err := eng.Resources(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to inspect container resources")
	}

	var issues []string
	if alloc.CPUs < constants.MinBuilderCPUs {
		issues = append(issues, fmt.Sprintf("- Allocated CPUs: %d (minimum required: %d)", alloc.CPUs, constants.MinBuilderCPUs))
	}
	if alloc.Memory < constants.MinBuilderMemory {
		issues = append(issues, fmt.Sprintf("- Allocated memory: %s (minimum required: %s)",
			formatGiB(alloc.Memory), formatGiB(constants.MinBuilderMemory)))
	}
	if len(issues) == 0 {
		return nil
	}

	limits, err := host.Limits(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read host limits")
	}

	return &ResourceError{
		Allocated: alloc,
		Host:      limits,
		Recommended: engine.Resources{
			CPUs:   min(max(constants.MinBuilderCPUs, alloc.CPUs), limits.CPUs),
			Memory: min(max(constants.MinBuilderMemory, alloc.Memory), limits.Memory),
		},
		Issues: issues,
	}
}

// FormatMemoryFlag renders bytes for `--memory`, using the largest of the
// G, M and K suffixes that divides it.
func FormatMemoryFlag(bytes int64) string {
	switch {
	case bytes%gib == 0:
		return fmt.Sprintf("%dG", bytes/gib)
	case bytes%mib == 0:
		return fmt.Sprintf("%dM", bytes/mib)
	case bytes%kib == 0:
		return fmt.Sprintf("%dK", bytes/kib)
	}
	return fmt.Sprintf("%d", bytes)
}

func formatGiB(bytes int64) string {
	return fmt.Sprintf("%.1f GiB", float64(bytes)/gib)
}
