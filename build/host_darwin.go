package build

import (
	"context"
	"strconv"

	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/tools"
	"github.com/pkg/errors"
)

func hostLimits(ctx context.Context, r tools.Runner) (engine.Resources, error) {
	ncpu, err := tools.Output(ctx, r, "sysctl", "-n", "hw.ncpu")
	if err != nil {
		return engine.Resources{}, err
	}
	memsize, err := tools.Output(ctx, r, "sysctl", "-n", "hw.memsize")
	if err != nil {
		return engine.Resources{}, err
	}

	cpus, err := strconv.Atoi(ncpu)
	if err != nil {
		return engine.Resources{}, errors.Wrap(err, "hw.ncpu")
	}
	mem, err := strconv.ParseInt(memsize, 10, 64)
	if err != nil {
		return engine.Resources{}, errors.Wrap(err, "hw.memsize")
	}
	return engine.Resources{CPUs: cpus, Memory: mem}, nil
}
