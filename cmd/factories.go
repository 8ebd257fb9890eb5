package cmd

import (
	"context"
	"os"

	"github.com/fastkernel/kforge/build"
	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/release"
	"github.com/fastkernel/kforge/tools"
)

// Collaborators of the commands, replaced in tests.
var (
	newEngine = func(name string) (engine.Engine, error) {
		return engine.New(name, tools.NewExecRunner())
	}

	newHost = func() build.Host {
		return build.NewSystemHost(tools.NewExecRunner())
	}

	newReleaseClient = func(ctx context.Context, client string) release.Client {
		if client == clientHTTP {
			return release.NewHTTPClient(ctx, os.Getenv("GH_TOKEN"))
		}
		return release.NewGHClient(tools.NewExecRunner())
	}
)
