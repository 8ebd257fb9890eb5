package release

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Asset is a downloadable file attached to a release.
type Asset struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"browser_download_url,omitempty"`
}

// Release is a published GitHub release.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset returns the asset called name.
func (r *Release) Asset(name string) (Asset, error) {
	names := make([]string, 0, len(r.Assets))
	for _, a := range r.Assets {
		if a.Name == name {
			return a, nil
		}
		n := a.Name
		if n == "" {
			n = "<unknown>"
		}
		names = append(names, n)
	}
	return Asset{}, fmt.Errorf("asset %q not found in latest release. Available assets: %s", name, strings.Join(names, ", "))
}

// Client reads releases of a repository.
type Client interface {
	Latest(ctx context.Context, repo string) (*Release, error)
	Download(ctx context.Context, repo string, asset Asset, w io.Writer) error
}

// Authenticator is implemented by clients that need credentials checked
// before the first request.
type Authenticator interface {
	EnsureAuth(ctx context.Context) error
}
