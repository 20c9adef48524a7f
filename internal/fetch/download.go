package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxCollisionSuffix bounds the numeric rename loop so a pathological
// destination directory cannot stall a run.
const maxCollisionSuffix = 1000

// Download fetches the image at urlStr into dir and returns the saved path.
// The response must declare an image content type; anything else fails closed
// so an HTML error page never ends up on disk as a "wallpaper". When filename
// is empty it is derived from the URL path. An existing file with the same
// name is never overwritten: a numeric suffix is inserted before the
// extension instead.
func Download(ctx context.Context, urlStr, dir, filename string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	resp, err := get(ctx, urlStr, opts.DownloadTimeout, opts.UserAgent)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("not an image content type: %q", contentType)}
	}

	if filename == "" {
		filename = filenameFromURL(urlStr)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create destination directory", Cause: err}
	}

	dest, f, err := createUnique(dir, filename)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create destination file", Cause: err}
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", &Error{URL: urlStr, Message: "failed to write image", Cause: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return "", &Error{URL: urlStr, Message: "failed to close destination file", Cause: err}
	}
	return dest, nil
}

// createUnique opens a new file under dir, appending _1, _2, ... before the
// extension until an unused name is found.
func createUnique(dir, filename string) (string, *os.File, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for i := 0; i < maxCollisionSuffix; i++ {
		name := filename
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		dest := filepath.Join(dir, name)
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return dest, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, err
		}
	}
	return "", nil, fmt.Errorf("no free filename for %s after %d attempts", filename, maxCollisionSuffix)
}

// filenameFromURL derives a local filename from the URL path, falling back to
// a generic name when the path has none.
func filenameFromURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "wallpaper.jpg"
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "wallpaper.jpg"
	}
	return name
}
