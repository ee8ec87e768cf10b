package fetcher

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPFetcher downloads over HTTP with a request rate limit and simple
// retry-on-5xx behavior.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	retries int
}

// NewHTTPFetcher creates an HTTP fetcher from options, applying defaults for
// unset fields.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}

	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		retries: opts.MaxRetries,
	}
}

// Download fetches the URL, retrying transient server errors with linear
// backoff.
func (f *HTTPFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			zap.L().Debug("fetcher: retrying download",
				zap.String("url", url),
				zap.Int("attempt", attempt),
			)
			select {
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), "fetcher: download cancelled")
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "fetcher: rate limit wait")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: build request %s", url)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = eris.Wrapf(err, "fetcher: get %s", url)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = eris.Errorf("fetcher: get %s: status %d", url, resp.StatusCode)
			continue
		default:
			_ = resp.Body.Close()
			return nil, eris.Errorf("fetcher: get %s: status %d", url, resp.StatusCode)
		}
	}
	return nil, lastErr
}

// DownloadToFile fetches the URL and writes the body to path.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, url string, path string) (int64, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	return writeToFile(body, path)
}

// writeToFile copies a reader into a newly created file.
func writeToFile(r io.Reader, path string) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrapf(err, "fetcher: create %s", path)
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, r)
	if err != nil {
		return 0, eris.Wrapf(err, "fetcher: write %s", path)
	}
	return n, nil
}
