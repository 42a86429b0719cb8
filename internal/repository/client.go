package repository

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cheggaaa/pb"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
)

const (
	maxRetries     = 3
	retryDelayUnit = 2 * time.Second
	requestTimeout = 120 * time.Second

	// progressThreshold is the minimum content length before a download
	// gets a progress bar; small POMs and checksum sidecars don't.
	progressThreshold = 100_000
)

// Client fetches artifacts from Maven repositories over HTTP, retrying
// transient failures with linear backoff.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// NewClient builds a Client with the timeout and identifying
// user agent used for every Maven request.
func NewClient() *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: requestTimeout},
		UserAgent: "kargo-core/0.1",
	}
}

// DownloadBytes fetches url from repo, making up to maxRetries attempts
// with linear backoff (attempt*2s) on timeouts, connection failures,
// and 5xx responses. A 404 is reported as (nil, false, nil): the
// caller should try the next repository in its search order rather
// than treat it as fatal.
func (c *Client) DownloadBytes(ctx context.Context, repo Repository, url string) ([]byte, bool, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * retryDelayUnit):
			case <-ctx.Done():
				return nil, false, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, false, kargoerr.Wrap(kargoerr.KindNetwork, err, "building request for %s", url)
		}
		req.Header.Set("User-Agent", c.UserAgent)
		applyAuth(req, repo)

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return nil, false, nil
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = kargoerr.Network("HTTP %d from %s", resp.StatusCode, url)
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, false, kargoerr.Network("HTTP %d fetching %s", resp.StatusCode, url)
		}

		data, err := readWithProgress(resp, url)
		resp.Body.Close()
		if err != nil {
			return nil, false, kargoerr.Wrap(kargoerr.KindNetwork, err, "reading response from %s", url)
		}
		return data, true, nil
	}

	return nil, false, kargoerr.Wrap(kargoerr.KindNetwork, lastErr, "failed after %d attempts for %s", maxRetries, url)
}

func readWithProgress(resp *http.Response, url string) ([]byte, error) {
	total := int64(0)
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		total, _ = strconv.ParseInt(cl, 10, 64)
	}

	if total <= progressThreshold {
		return io.ReadAll(resp.Body)
	}

	bar := pb.New64(total).SetUnits(pb.U_BYTES)
	bar.Prefix(shortLabel(url))
	bar.Start()
	defer bar.Finish()

	return io.ReadAll(bar.NewProxyReader(resp.Body))
}

func shortLabel(url string) string {
	for i := len(url) - 1; i >= 0; i-- {
		if url[i] == '/' {
			return url[i+1:]
		}
	}
	return url
}

// downloadText fetches url and decodes it as UTF-8 text, used for
// POMs, metadata documents, and checksum sidecars.
func (c *Client) downloadText(ctx context.Context, repo Repository, url string) (string, bool, error) {
	data, ok, err := c.DownloadBytes(ctx, repo, url)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(data), true, nil
}
