package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// GithubAPIBaseURL allows overriding for tests.
var GithubAPIBaseURL = "https://api.github.com"
var GithubAPIBaseURLMutex sync.Mutex

// GitHubCommitInfo is the part of a commit listing entry that is used.
type GitHubCommitInfo struct {
	SHA    string `json:"sha"`
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// GetLatestCommitSHAForFile fetches the latest commit SHA for a specific file
// on a given branch, tag or commit from GitHub.
func GetLatestCommitSHAForFile(ctx context.Context, owner, repo, pathInRepo, ref string) (string, error) {
	GithubAPIBaseURLMutex.Lock()
	base := GithubAPIBaseURL
	GithubAPIBaseURLMutex.Unlock()

	query := url.Values{}
	query.Set("path", pathInRepo)
	query.Set("sha", ref)
	query.Set("per_page", "1")
	apiURL := fmt.Sprintf("%s/repos/%s/%s/commits?%s", base, url.PathEscape(owner), url.PathEscape(repo), query.Encode())

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request to GitHub API: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "capctl")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call GitHub API (%s): %w", apiURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from GitHub API (%s): %w", apiURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API request failed with status %s (%s): %s", resp.Status, apiURL, string(body))
	}

	var commits []GitHubCommitInfo
	if err := json.Unmarshal(body, &commits); err != nil {
		return "", fmt.Errorf("failed to unmarshal GitHub API response (%s): %w", apiURL, err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("no commits found for path '%s' at ref '%s' in repo '%s/%s'", pathInRepo, ref, owner, repo)
	}
	return commits[0].SHA, nil
}
