package build

import (
	"context"
	"runtime"

	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/tools"
	"golang.org/x/sys/unix"
)

func hostLimits(ctx context.Context, _ tools.Runner) (engine.Resources, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return engine.Resources{}, err
	}
	return engine.Resources{
		CPUs:   runtime.NumCPU(),
		Memory: int64(uint64(info.Totalram) * uint64(info.Unit)),
	}, nil
}
