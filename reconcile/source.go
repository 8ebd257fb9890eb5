package reconcile

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/kconfig"
	"github.com/spf13/afero"
)

// Source provides the upstream template.
type Source interface {
	Fetch(ctx context.Context) (*kconfig.Snapshot, error)
	String() string
}

// NewSource returns an HTTPSource for http(s) locations and a FileSource
// otherwise.
func NewSource(fs afero.Fs, location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location}
	}
	return &FileSource{Fs: fs, Path: location}
}

// HTTPSource downloads the template.
type HTTPSource struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

func (s *HTTPSource) String() string { return s.URL }

// Fetch downloads and parses the template. Any failure, including a body
// that is not a config document, is a FetchError.
func (s *HTTPSource) Fetch(ctx context.Context) (*kconfig.Snapshot, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = constants.FetchTimeoutSeconds * time.Second
	}
	c := s.Client
	if c == nil {
		c = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &kconfig.FetchError{Source: s.URL, Err: err}
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, &kconfig.FetchError{Source: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &kconfig.FetchError{Source: s.URL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	snap, err := kconfig.Parse(resp.Body, s.URL)
	if err != nil {
		return nil, &kconfig.FetchError{Source: s.URL, Err: err}
	}
	return snap, nil
}

// FileSource reads the template from disk.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

func (s *FileSource) String() string { return s.Path }

// Fetch reads and parses the template.
func (s *FileSource) Fetch(ctx context.Context) (*kconfig.Snapshot, error) {
	f, err := s.Fs.Open(s.Path)
	if err != nil {
		return nil, &kconfig.FetchError{Source: s.Path, Err: err}
	}
	defer f.Close()

	snap, err := kconfig.Parse(f, s.Path)
	if err != nil {
		return nil, &kconfig.FetchError{Source: s.Path, Err: err}
	}
	return snap, nil
}
