// Package gallery models the remote wallpaper gallery as a stateful browser
// session capability: shuffle the listing, read the current links, release.
package gallery

import (
	"context"
	"fmt"
	"time"
)

// DefaultURL is the gallery page the agent scrapes.
const DefaultURL = "https://ultrawidewallpapers.net/gallery"

// DefaultLinkSelector locates image links inside the gallery listing.
const DefaultLinkSelector = "#galleryContainer .image-link"

// DefaultShuffleSelector locates the control that randomizes the listing.
const DefaultShuffleSelector = "#shuffleButton"

// DefaultSettleDelay is how long the session waits after a shuffle for the
// remote content to be replaced. There is no DOM signal for "listing
// changed", so this is a fixed wait.
const DefaultSettleDelay = 2 * time.Second

// DefaultNavTimeout bounds the initial page navigation.
const DefaultNavTimeout = 30 * time.Second

// SessionError represents a navigation, shuffle, or element-lookup failure
// on the remote gallery. It is always recoverable: callers abort the current
// collection attempt, never the process.
type SessionError struct {
	Op    string
	Cause error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("gallery session %s failed: %v", e.Op, e.Cause)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

// Session is the capability the collector drives. A session is a single
// stateful remote resource and must not be used concurrently. Close releases
// it and must run on all exit paths.
type Session interface {
	// Reshuffle asks the gallery for a new randomized listing and waits for
	// the remote content to settle.
	Reshuffle(ctx context.Context) error
	// CurrentLinks returns the image URLs in the current listing, in listing
	// order.
	CurrentLinks(ctx context.Context) ([]string, error)
	// Close releases the session.
	Close() error
}

// Options configures a gallery session.
type Options struct {
	URL             string
	LinkSelector    string
	ShuffleSelector string
	SettleDelay     time.Duration
	NavTimeout      time.Duration
}

// DefaultOptions returns the options for the default gallery.
func DefaultOptions() *Options {
	return &Options{
		URL:             DefaultURL,
		LinkSelector:    DefaultLinkSelector,
		ShuffleSelector: DefaultShuffleSelector,
		SettleDelay:     DefaultSettleDelay,
		NavTimeout:      DefaultNavTimeout,
	}
}
