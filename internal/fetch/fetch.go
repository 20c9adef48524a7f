// Package fetch retrieves remote wallpaper images: a cheap dimension probe
// for candidate filtering and a full download for images that made the cut.
package fetch

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"time"

	// Codecs the gallery is known to serve. DecodeConfig only reads headers,
	// so probing stays cheap even for very large wallpapers.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultProbeTimeout bounds the dimension probe request.
const DefaultProbeTimeout = 15 * time.Second

// DefaultDownloadTimeout bounds a full image download.
const DefaultDownloadTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; WallpaperAgent/1.0)"

// Error represents a failure fetching one URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
	UserAgent       string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		ProbeTimeout:    DefaultProbeTimeout,
		DownloadTimeout: DefaultDownloadTimeout,
		UserAgent:       DefaultUserAgent,
	}
}

func get(ctx context.Context, urlStr string, timeout time.Duration, userAgent string) (*http.Response, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return resp, nil
}

// Dimensions probes the pixel size of a remote image without downloading the
// full payload. Failures are reported but are expected to be treated as
// recoverable: a candidate without dimensions is still a candidate.
func Dimensions(ctx context.Context, urlStr string, opts *Options) (width, height int, err error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	resp, err := get(ctx, urlStr, opts.ProbeTimeout, opts.UserAgent)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return 0, 0, &Error{URL: urlStr, Message: "failed to decode image header", Cause: err}
	}
	return cfg.Width, cfg.Height, nil
}
