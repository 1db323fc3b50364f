// Package pypi implements the VersionProvider against a PyPI-compatible
// package index. Version lookups go through the JSON metadata endpoint;
// changelog excerpts are discovered from the repository the package
// metadata points at.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gh "github.com/google/go-github/v66/github"
	cleanhttp "github.com/hashicorp/go-cleanhttp"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumper/domain"
)

const (
	providerName   = "pypi"
	defaultBaseURL = "https://pypi.org/pypi"
	defaultTimeout = 15 * time.Second
	defaultRetries = 3
)

// Options configures a Provider.
type Options struct {
	BaseURL     string        // Index metadata endpoint; defaults to pypi.org
	Timeout     time.Duration // Per-request timeout
	MaxRetries  int           // Retry count for transient failures
	GitHubToken string        // Optional token for changelog lookups
}

// Provider implements domain.VersionProvider for PyPI.
type Provider struct {
	baseURL string
	client  *retryablehttp.Client
	github  *gh.Client

	// One metadata fetch per package per run.
	cache map[string]*packageInfo
}

// New creates a PyPI provider. Retries and timeouts live here: callers
// treat every lookup as a plain blocking call.
func New(opts Options) *Provider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultRetries
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultClient()
	client.HTTPClient.Timeout = opts.Timeout
	client.RetryMax = opts.MaxRetries
	client.Logger = nil

	githubClient := gh.NewClient(client.StandardClient())
	if opts.GitHubToken != "" {
		githubClient = githubClient.WithAuthToken(opts.GitHubToken)
	}

	return &Provider{
		baseURL: opts.BaseURL,
		client:  client,
		github:  githubClient,
		cache:   make(map[string]*packageInfo),
	}
}

func (p *Provider) Name() string { return providerName }

// LatestVersion returns the newest published version for a package.
func (p *Provider) LatestVersion(ctx context.Context, pkg string) (string, error) {
	info, err := p.packageInfo(ctx, pkg)
	if err != nil {
		return "", err
	}

	if info.Info.Version == "" {
		return "", fmt.Errorf("index has no version for %q: %w", pkg, domain.ErrVersionNotFound)
	}
	return info.Info.Version, nil
}

// --- package metadata ---

type packageInfo struct {
	Info struct {
		Version     string            `json:"version"`
		HomePage    string            `json:"home_page"`
		DocsURL     string            `json:"docs_url"`
		Description string            `json:"description"`
		ProjectURLs map[string]string `json:"project_urls"`
	} `json:"info"`
	Releases map[string]json.RawMessage `json:"releases"`
}

func (p *Provider) packageInfo(ctx context.Context, pkg string) (*packageInfo, error) {
	if cached, ok := p.cache[pkg]; ok {
		return cached, nil
	}

	url := fmt.Sprintf("%s/%s/json", p.baseURL, pkg)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %q: %w", pkg, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package info for %q: %w", pkg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("index does not know %q: %w", pkg, domain.ErrPackageNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"unexpected status %d fetching package info for %q", resp.StatusCode, pkg,
		)
	}

	var info packageInfo
	if decodeErr := json.NewDecoder(resp.Body).Decode(&info); decodeErr != nil {
		return nil, fmt.Errorf("failed to parse package info for %q: %w", pkg, decodeErr)
	}

	p.cache[pkg] = &info
	return &info, nil
}

// fetchURL retrieves a URL and returns its body, or empty when the request
// fails. Changelog probing treats every miss as "try the next candidate".
func (p *Provider) fetchURL(ctx context.Context, url string) string {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Debugf("Changelog probe %s: %v", url, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return ""
	}
	return string(body)
}
