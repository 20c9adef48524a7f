// Package pipeline provides the high-level orchestration for one wallpaper
// run: detect monitors, collect distinct candidates, download and validate
// them, crop to each monitor's aspect, stitch, and optionally apply.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/wallpaper-agent/internal/collect"
	"github.com/jonathan/wallpaper-agent/internal/config"
	"github.com/jonathan/wallpaper-agent/internal/fetch"
	"github.com/jonathan/wallpaper-agent/internal/gallery"
	"github.com/jonathan/wallpaper-agent/internal/history"
	"github.com/jonathan/wallpaper-agent/internal/imgproc"
	"github.com/jonathan/wallpaper-agent/internal/monitor"
	"github.com/jonathan/wallpaper-agent/internal/observability"
	"github.com/jonathan/wallpaper-agent/internal/stitch"
	"github.com/jonathan/wallpaper-agent/internal/wallpaper"
)

// maxCollectionPasses bounds how often the pipeline goes back to the gallery
// when brightness rejection or failed downloads leave it short of images.
const maxCollectionPasses = 3

// transformConcurrency bounds parallel per-candidate download and crop work.
const transformConcurrency = 4

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline.
type RunOptions struct {
	Config config.Config
	// Session overrides the gallery session, mainly for tests. When nil a
	// headless Chrome session is created from Config.
	Session gallery.Session
	// Enumerators overrides monitor detection. When nil the default
	// strategy order is used, preceded by Config.MonitorLayout if set.
	Enumerators []monitor.Enumerator
	OnProgress  ProgressCallback
}

// RunResult describes a completed run.
type RunResult struct {
	RunID      string
	Monitors   []monitor.Monitor
	Used       []collect.Candidate
	ImagePaths []string
	OutputPath string
	Applied    bool
}

func emitProgress(opts *RunOptions, runID, step, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, RunID: runID})
	}
}

// RunPipeline orchestrates the full wallpaper run. History is appended only
// after the stitched output exists; a failed run leaves the history file
// untouched so its images stay eligible.
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {
	cfg := opts.Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := log.With("component", "pipeline", "run_id", runID)
	printer := observability.NewPrinter(os.Stdout)

	// Monitor topology
	enumerators := opts.Enumerators
	if enumerators == nil {
		if cfg.MonitorLayout != "" {
			enumerators = append(enumerators, monitor.LayoutEnumerator{Path: cfg.MonitorLayout})
		}
		enumerators = append(enumerators, monitor.DefaultEnumerators()...)
	}
	monitors, err := monitor.Gather(ctx, enumerators...)
	if err != nil {
		return nil, fmt.Errorf("monitor detection failed: %w", err)
	}
	emitProgress(&opts, runID, "monitors", fmt.Sprintf("detected %d monitors", len(monitors)))
	if cfg.Verbose {
		printer.PrintMonitors(monitors)
	}

	// History is the cross-run part of the skip-set.
	hist := history.Load(cfg.HistoryPath)
	logger.Debug("history loaded", "path", cfg.HistoryPath, "entries", len(hist))

	// Gallery session, released on every exit path.
	session := opts.Session
	if session == nil {
		galleryOpts := gallery.DefaultOptions()
		if cfg.GalleryURL != "" {
			galleryOpts.URL = cfg.GalleryURL
		}
		if cfg.LinkSelector != "" {
			galleryOpts.LinkSelector = cfg.LinkSelector
		}
		if cfg.ShuffleSelector != "" {
			galleryOpts.ShuffleSelector = cfg.ShuffleSelector
		}
		galleryOpts.SettleDelay = cfg.SettleDelay()
		chromeSession, err := gallery.NewChromeSession(ctx, galleryOpts)
		if err != nil {
			return nil, err
		}
		session = chromeSession
	}
	defer func() { _ = session.Close() }()

	needed := cfg.Count
	if needed <= 0 {
		needed = len(monitors)
	}
	if needed < len(monitors) {
		return nil, fmt.Errorf("count %d is fewer than %d monitors", needed, len(monitors))
	}

	fetchOpts := &fetch.Options{
		ProbeTimeout:    cfg.ProbeTimeout(),
		DownloadTimeout: cfg.DownloadTimeout(),
		UserAgent:       fetch.DefaultUserAgent,
	}
	probe := func(ctx context.Context, url string) (int, int, error) {
		return fetch.Dimensions(ctx, url, fetchOpts)
	}
	destDir := filepath.Join(cfg.DestDir, runID)
	brightness := &imgproc.BrightnessOptions{
		Threshold:  cfg.BrightnessThreshold,
		SampleSize: cfg.BrightnessSample,
	}

	// Everything offered to the collector so far, whether used or rejected,
	// is skipped on later passes.
	skip := make(map[string]struct{}, len(hist))
	for url := range hist {
		skip[url] = struct{}{}
	}

	var accepted []collect.Candidate
	var acceptedPaths []string

	for pass := 0; pass < maxCollectionPasses && len(accepted) < needed; pass++ {
		candidates, collectErr := collect.Collect(ctx, session, probe, collect.Options{
			Count:       needed - len(accepted),
			MaxAttempts: cfg.MaxAttempts,
			Skip:        skip,
		})
		for _, c := range candidates {
			skip[c.ImageURL] = struct{}{}
		}
		emitProgress(&opts, runID, "collect", fmt.Sprintf("pass %d collected %d candidates", pass+1, len(candidates)))
		if cfg.Verbose {
			printer.PrintCandidates(candidates)
		}

		paths := downloadAndValidate(ctx, candidates, destDir, fetchOpts, brightness, logger)
		for i, path := range paths {
			if path == "" {
				continue
			}
			accepted = append(accepted, candidates[i])
			acceptedPaths = append(acceptedPaths, path)
		}
		emitProgress(&opts, runID, "validate", fmt.Sprintf("have %d of %d images", len(accepted), needed))

		if collectErr != nil {
			logger.Warn("gallery session gave up", "err", collectErr)
			break
		}
		if len(candidates) == 0 {
			break
		}
	}

	if len(accepted) < len(monitors) {
		return nil, fmt.Errorf("only %d usable images for %d monitors", len(accepted), len(monitors))
	}
	used := accepted[:len(monitors)]
	usedPaths := acceptedPaths[:len(monitors)]

	// Crop each image to its monitor's aspect ratio, paired by position.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transformConcurrency)
	for i, path := range usedPaths {
		path := path
		m := monitors[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return imgproc.CropToAspect(path, "", m.Width, m.Height)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aspect crop failed: %w", err)
	}
	emitProgress(&opts, runID, "crop", fmt.Sprintf("cropped %d images", len(usedPaths)))

	stitchOpts := &stitch.Options{Quality: cfg.JPEGQuality}
	if err := stitch.Stitch(ctx, usedPaths, monitors, cfg.OutputPath, stitchOpts); err != nil {
		return nil, err
	}
	emitProgress(&opts, runID, "stitch", "stitched wallpaper saved to "+cfg.OutputPath)

	applied := false
	if cfg.Apply {
		if err := wallpaper.Apply(ctx, cfg.OutputPath); err != nil {
			logger.Warn("could not apply wallpaper", "err", err)
		} else {
			applied = true
		}
		emitProgress(&opts, runID, "apply", fmt.Sprintf("applied=%v", applied))
	}

	urls := make([]string, len(used))
	for i, c := range used {
		urls[i] = c.ImageURL
	}
	if err := history.Append(cfg.HistoryPath, urls); err != nil {
		logger.Warn("could not record history", "err", err)
	}
	emitProgress(&opts, runID, "history", fmt.Sprintf("recorded %d URLs", len(urls)))

	if cfg.Verbose {
		printer.PrintRunSummary(runID, cfg.OutputPath, len(used), applied)
	}

	return &RunResult{
		RunID:      runID,
		Monitors:   monitors,
		Used:       used,
		ImagePaths: usedPaths,
		OutputPath: cfg.OutputPath,
		Applied:    applied,
	}, nil
}

// downloadAndValidate fetches each candidate and runs the brightness check.
// The returned slice pairs with candidates by index; an empty string marks a
// candidate that was dropped. Per-candidate failures never abort the batch.
func downloadAndValidate(ctx context.Context, candidates []collect.Candidate, destDir string,
	fetchOpts *fetch.Options, brightness *imgproc.BrightnessOptions, logger *log.Logger) []string {

	paths := make([]string, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transformConcurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			saved, err := fetch.Download(gctx, c.ImageURL, destDir, "", fetchOpts)
			if err != nil {
				logger.Warn("download failed, dropping candidate", "url", c.ImageURL, "err", err)
				return nil
			}
			if imgproc.TooBright(saved, brightness) {
				logger.Info("image too bright, dropping", "url", c.ImageURL)
				_ = os.Remove(saved)
				return nil
			}
			paths[i] = saved
			return nil
		})
	}
	_ = g.Wait()
	return paths
}
