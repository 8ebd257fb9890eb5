//go:build !linux && !darwin

package build

import (
	"context"
	"fmt"
	"runtime"

	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/tools"
)

func hostLimits(ctx context.Context, _ tools.Runner) (engine.Resources, error) {
	return engine.Resources{}, fmt.Errorf("host limits are not supported on %s", runtime.GOOS)
}
