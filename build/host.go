package build

import (
	"context"

	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/tools"
)

// Host reports the CPUs and memory of the machine running the engine.
type Host interface {
	Limits(ctx context.Context) (engine.Resources, error)
}

// SystemHost reads the limits of the local machine.
type SystemHost struct {
	Runner tools.Runner
}

// NewSystemHost returns a SystemHost running helper commands through runner.
func NewSystemHost(runner tools.Runner) *SystemHost {
	if runner == nil {
		runner = tools.NewExecRunner()
	}
	return &SystemHost{Runner: runner}
}

// Limits returns the host totals.
func (h *SystemHost) Limits(ctx context.Context) (engine.Resources, error) {
	return hostLimits(ctx, h.Runner)
}
