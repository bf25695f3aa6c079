// Package source resolves where a capabilities document comes from: a local
// file, a plain HTTP(S) URL or a file in a GitHub repository.
package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nightconcept/capctl/internal/core/downloader"
)

// Provider names the kind of location a document is fetched from.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderHTTP   Provider = "http"
	ProviderGitHub Provider = "github"
)

// GithubRawBaseURL is where raw GitHub file content is fetched from. Tests
// point it at a local server.
var GithubRawBaseURL = "https://raw.githubusercontent.com"
var GithubRawBaseURLMutex sync.Mutex

// Source holds the details extracted from a source argument.
type Source struct {
	Provider Provider
	// Location is the local path or the URL the content is read from.
	Location string
	// Canonical is the form recorded in the lockfile: an absolute path, a URL
	// or github:owner/repo/path@ref.
	Canonical string

	// GitHub sources only.
	Owner      string
	Repo       string
	PathInRepo string
	Ref        string

	// SuggestedName is the file name without its extension, used as the
	// default app name.
	SuggestedName string
}

// IsRemote reports whether fetching needs the network.
func (s *Source) IsRemote() bool { return s.Provider != ProviderLocal }

// Parse analyzes a source argument.
func Parse(input string) (*Source, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("source must not be empty")
	}
	if strings.HasPrefix(input, "github:") {
		return parseGitHubShorthand(input)
	}

	u, err := url.Parse(input)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if u.Host == "" {
			return nil, fmt.Errorf("invalid source URL '%s': missing host", input)
		}
		host := strings.ToLower(u.Hostname())
		if host == "github.com" || host == "raw.githubusercontent.com" {
			return parseGitHubURL(u)
		}
		return &Source{
			Provider:      ProviderHTTP,
			Location:      u.String(),
			Canonical:     u.String(),
			SuggestedName: suggestName(path.Base(u.Path)),
		}, nil
	}
	if err == nil && u.Scheme == "file" {
		input = u.Path
	} else if err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return nil, fmt.Errorf("unsupported source scheme '%s' in '%s'", u.Scheme, input)
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve local source '%s': %w", input, err)
	}
	return &Source{
		Provider:      ProviderLocal,
		Location:      abs,
		Canonical:     abs,
		SuggestedName: suggestName(filepath.Base(abs)),
	}, nil
}

// parseGitHubShorthand handles github:owner/repo/path/to/file@ref.
func parseGitHubShorthand(input string) (*Source, error) {
	content := strings.TrimPrefix(input, "github:")

	lastAt := strings.LastIndex(content, "@")
	if lastAt == -1 {
		return nil, fmt.Errorf("invalid github shorthand source '%s': missing @ref (e.g., @main or @commitsha)", input)
	}
	if lastAt == len(content)-1 {
		return nil, fmt.Errorf("invalid github shorthand source '%s': ref part is empty after @", input)
	}

	parts := strings.Split(content[:lastAt], "/")
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid github shorthand source '%s': expected format owner/repo/path/to/file, got '%s'", input, content[:lastAt])
	}
	return newGitHubSource(parts[0], parts[1], strings.Join(parts[2:], "/"), content[lastAt+1:])
}

// parseGitHubURL handles github.com blob/raw links and raw.githubusercontent.com URLs.
func parseGitHubURL(u *url.URL) (*Source, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	if strings.ToLower(u.Hostname()) == "raw.githubusercontent.com" {
		// /<owner>/<repo>/<ref>/<path_to_file>
		if len(parts) < 4 {
			return nil, fmt.Errorf("invalid GitHub raw content URL path: %s. Expected format: /<owner>/<repo>/<ref>/<path_to_file>", u.Path)
		}
		return newGitHubSource(parts[0], parts[1], strings.Join(parts[3:], "/"), parts[2])
	}

	// /<owner>/<repo>/<blob|raw>/<ref>/<path_to_file>
	if len(parts) < 5 {
		return nil, fmt.Errorf("invalid GitHub URL path: %s. Expected /<owner>/<repo>/blob/<ref>/<path_to_file>", u.Path)
	}
	switch parts[2] {
	case "blob", "raw":
	case "tree":
		return nil, fmt.Errorf("direct links to GitHub trees are not supported, link a single file: %s", u.String())
	default:
		return nil, fmt.Errorf("unsupported GitHub URL: %s. Use a /blob/ or /raw/ link", u.String())
	}
	return newGitHubSource(parts[0], parts[1], strings.Join(parts[4:], "/"), parts[3])
}

func newGitHubSource(owner, repo, pathInRepo, ref string) (*Source, error) {
	if owner == "" || repo == "" || pathInRepo == "" || ref == "" || strings.HasSuffix(pathInRepo, "/") {
		return nil, fmt.Errorf("invalid github source: owner, repo, path and ref must not be empty")
	}
	s := &Source{
		Provider:      ProviderGitHub,
		Owner:         owner,
		Repo:          repo,
		PathInRepo:    pathInRepo,
		SuggestedName: suggestName(path.Base(pathInRepo)),
	}
	s.setRef(ref)
	return s, nil
}

func (s *Source) setRef(ref string) {
	GithubRawBaseURLMutex.Lock()
	base := GithubRawBaseURL
	GithubRawBaseURLMutex.Unlock()

	s.Ref = ref
	s.Location = fmt.Sprintf("%s/%s/%s/%s/%s", base, s.Owner, s.Repo, ref, s.PathInRepo)
	s.Canonical = fmt.Sprintf("github:%s/%s/%s@%s", s.Owner, s.Repo, s.PathInRepo, ref)
}

// Pin replaces the ref of a GitHub source with the latest commit touching the
// file, so later fetches are reproducible. Other sources are left unchanged.
func (s *Source) Pin(ctx context.Context) error {
	if s.Provider != ProviderGitHub {
		return nil
	}
	sha, err := GetLatestCommitSHAForFile(ctx, s.Owner, s.Repo, s.PathInRepo, s.Ref)
	if err != nil {
		return fmt.Errorf("failed to pin %s: %w", s.Canonical, err)
	}
	s.setRef(sha)
	return nil
}

// Fetch reads the document content.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.Provider == ProviderLocal {
		data, err := os.ReadFile(s.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.Location, err)
		}
		return data, nil
	}
	return downloader.DownloadFile(ctx, s.Location)
}

func suggestName(base string) string {
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" || name == "." || name == "/" {
		return "app"
	}
	return name
}
