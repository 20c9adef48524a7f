package gallery

import (
	"context"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

// ChromeSession drives the gallery in a headless Chrome instance.
// Requires Chrome/Chromium to be installed on the system.
type ChromeSession struct {
	opts    Options
	base    *url.URL
	ctx     context.Context
	cancels []context.CancelFunc
	logger  *log.Logger
}

var _ Session = (*ChromeSession)(nil)

// NewChromeSession launches a headless browser, navigates to the gallery
// page, and waits for the listing to become visible. The returned session
// must be closed by the caller on all exit paths.
func NewChromeSession(ctx context.Context, opts *Options) (*ChromeSession, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	base, err := url.Parse(opts.URL)
	if err != nil {
		return nil, &SessionError{Op: "navigate", Cause: err}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1920, 1080),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &ChromeSession{
		opts:    *opts,
		base:    base,
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		logger:  log.With("component", "gallery"),
	}

	navCtx, navCancel := context.WithTimeout(browserCtx, opts.NavTimeout)
	defer navCancel()

	err = chromedp.Run(navCtx,
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(opts.LinkSelector),
	)
	if err != nil {
		_ = s.Close()
		return nil, &SessionError{Op: "navigate", Cause: err}
	}
	s.logger.Debug("gallery loaded", "url", opts.URL)
	return s, nil
}

// Reshuffle clicks the shuffle control and sleeps for the settle delay. The
// gallery replaces the listing asynchronously with no completion signal, so
// the fixed delay stands in for a real "listing changed" wait.
func (s *ChromeSession) Reshuffle(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.NavTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.WaitVisible(s.opts.ShuffleSelector),
		chromedp.Click(s.opts.ShuffleSelector),
	)
	if err != nil {
		return &SessionError{Op: "reshuffle", Cause: err}
	}

	select {
	case <-time.After(s.opts.SettleDelay):
	case <-ctx.Done():
		return &SessionError{Op: "reshuffle", Cause: ctx.Err()}
	}
	s.logger.Debug("listing reshuffled")
	return nil
}

// CurrentLinks reads the rendered page and extracts the listing's image
// URLs, resolved against the gallery's base URL.
func (s *ChromeSession) CurrentLinks(ctx context.Context) ([]string, error) {
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.NavTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, &SessionError{Op: "list", Cause: err}
	}

	links, err := ExtractLinks(html, s.opts.LinkSelector, s.base)
	if err != nil {
		return nil, &SessionError{Op: "list", Cause: err}
	}
	return links, nil
}

// Close tears down the browser contexts.
func (s *ChromeSession) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	return nil
}
