// Package downloader provides functionality to download files from URLs.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxSize bounds how much of a response body is read.
const MaxSize = 10 << 20

// DownloadFile fetches the content from the given URL.
// It returns the content as a byte slice or an error if the download fails,
// the HTTP status code is not 200 OK or the body exceeds MaxSize.
func DownloadFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request to %s: %w", url, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform GET request to %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download from %s: received status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	if len(body) > MaxSize {
		return nil, fmt.Errorf("failed to download from %s: response exceeds %d bytes", url, MaxSize)
	}

	return body, nil
}
