// Package collect gathers distinct wallpaper candidates from the remote
// gallery. The remote shuffle can repeat images across attempts and across
// runs, so collection filters every listing against a skip-set (history plus
// whatever this run already picked) and retries under a bounded attempt
// budget.
package collect

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/jonathan/wallpaper-agent/internal/gallery"
	"github.com/jonathan/wallpaper-agent/internal/monitor"
)

// DefaultMaxAttempts is the reshuffle ceiling for one collection run.
const DefaultMaxAttempts = 25

// Candidate is a discovered image reference pending validation and use.
// Identity is the URL; dimensions are best-effort and absent when the probe
// failed.
type Candidate struct {
	ImageURL         string
	Width            int
	Height           int
	HasDimensions    bool
	AspectRatio      string
	AspectRatioFloat float64
}

// NewCandidate builds a candidate with its derived ratio fields. Width and
// height of zero (or negative) mean the dimensions are unknown.
func NewCandidate(imageURL string, width, height int) Candidate {
	c := Candidate{ImageURL: imageURL}
	if width > 0 && height > 0 {
		c.Width = width
		c.Height = height
		c.HasDimensions = true
		c.AspectRatio, _ = monitor.SimplifyRatio(width, height)
		c.AspectRatioFloat = math.Round(float64(width)/float64(height)*10000) / 10000
	}
	return c
}

// ProbeFunc fetches the pixel dimensions of a remote image. Failures are
// per-URL and recoverable; the candidate is kept without dimensions.
type ProbeFunc func(ctx context.Context, url string) (width, height int, err error)

// Options configures one collection run.
type Options struct {
	// Count is how many distinct candidates to gather. Must be positive.
	Count int
	// MaxAttempts caps the number of reshuffles. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int
	// Skip holds URLs that must not be returned, typically the download
	// history. The collector never mutates it.
	Skip map[string]struct{}
}

// Collect drives the gallery session until it has opts.Count distinct
// candidates or the attempt budget is spent. The result can be shorter than
// requested; it never contains duplicates or skip-set members. A session
// failure ends collection early and returns what was gathered along with the
// error.
func Collect(ctx context.Context, session gallery.Session, probe ProbeFunc, opts Options) ([]Candidate, error) {
	if opts.Count <= 0 {
		return nil, nil
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	logger := log.With("component", "collect")

	collected := make([]Candidate, 0, opts.Count)
	seen := make(map[string]struct{}, opts.Count)

	for attempts := 0; len(collected) < opts.Count && attempts < maxAttempts; attempts++ {
		if err := session.Reshuffle(ctx); err != nil {
			logger.Warn("reshuffle failed, ending collection", "attempt", attempts+1, "err", err)
			return collected, err
		}

		links, err := session.CurrentLinks(ctx)
		if err != nil {
			logger.Warn("listing read failed, ending collection", "attempt", attempts+1, "err", err)
			return collected, err
		}

		for _, url := range links {
			if len(collected) == opts.Count {
				break
			}
			if _, ok := opts.Skip[url]; ok {
				continue
			}
			if _, ok := seen[url]; ok {
				continue
			}

			width, height := 0, 0
			if probe != nil {
				w, h, err := probe(ctx, url)
				if err != nil {
					logger.Debug("dimension probe failed, keeping candidate without dimensions", "url", url, "err", err)
				} else {
					width, height = w, h
				}
			}

			seen[url] = struct{}{}
			collected = append(collected, NewCandidate(url, width, height))
			logger.Info("collected candidate", "url", url, "have", len(collected), "want", opts.Count)
		}
	}

	if len(collected) < opts.Count {
		logger.Warn("attempt budget exhausted", "have", len(collected), "want", opts.Count, "max_attempts", maxAttempts)
	}
	return collected, nil
}
