package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fastkernel/kforge/constants"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// HTTPClient talks to the GitHub REST API directly.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPClient returns a client for the public API. A non-empty token is
// sent as a bearer token.
func NewHTTPClient(ctx context.Context, token string) *HTTPClient {
	c := http.DefaultClient
	if token != "" {
		c = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &HTTPClient{BaseURL: constants.GitHubAPI, Client: c}
}

func (c *HTTPClient) get(ctx context.Context, path, accept string) (*http.Response, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s\n%s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// Latest fetches the latest release of repo.
func (c *HTTPClient) Latest(ctx context.Context, repo string) (*Release, error) {
	resp, err := c.get(ctx, "/repos/"+repo+"/releases/latest", "application/vnd.github+json")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to inspect latest release for %s", repo)
	}
	defer resp.Body.Close()

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, errors.Wrapf(err, "failed to inspect latest release for %s", repo)
	}
	return &rel, nil
}

// Download streams the asset to w, following the storage redirect.
func (c *HTTPClient) Download(ctx context.Context, repo string, asset Asset, w io.Writer) error {
	resp, err := c.get(ctx, fmt.Sprintf("/repos/%s/releases/assets/%d", repo, asset.ID), "application/octet-stream")
	if err != nil {
		return errors.Wrapf(err, "failed to download %s", asset.Name)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return errors.Wrapf(err, "failed to download %s", asset.Name)
}
