package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/wallpaper-agent/internal/config"
	"github.com/jonathan/wallpaper-agent/internal/history"
	"github.com/jonathan/wallpaper-agent/internal/monitor"
)

// testGallery serves a few known images over HTTP.
func testGallery(t *testing.T) *httptest.Server {
	t.Helper()
	images := map[string]color.NRGBA{
		"/dark1.png": {R: 20, G: 30, B: 60, A: 255},
		"/dark2.png": {R: 60, G: 20, B: 20, A: 255},
		"/white.png": {R: 255, G: 255, B: 255, A: 255},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := images[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, imaging.New(192, 108, c)); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)
	return server
}

// scriptedSession replays one listing per reshuffle.
type scriptedSession struct {
	listings [][]string
	shuffles int
	fail     bool
	closed   bool
}

func (s *scriptedSession) Reshuffle(context.Context) error {
	if s.fail {
		return fmt.Errorf("browser gone")
	}
	s.shuffles++
	return nil
}

func (s *scriptedSession) CurrentLinks(context.Context) ([]string, error) {
	idx := s.shuffles - 1
	if idx >= len(s.listings) {
		idx = len(s.listings) - 1
	}
	if idx < 0 {
		return nil, nil
	}
	return s.listings[idx], nil
}

func (s *scriptedSession) Close() error {
	s.closed = true
	return nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		HistoryPath: filepath.Join(dir, "history.txt"),
		DestDir:     filepath.Join(dir, "downloads"),
		OutputPath:  filepath.Join(dir, "stitched.jpg"),
		MaxAttempts: 3,
	}
}

func twoMonitors() []monitor.Enumerator {
	return []monitor.Enumerator{monitor.StaticEnumerator{Monitors: []monitor.Monitor{
		{Index: 0, Name: "DP-1", Width: 192, Height: 108, X: 0, Y: 0, Primary: true},
		{Index: 1, Name: "HDMI-1", Width: 192, Height: 108, X: 192, Y: 0},
	}}}
}

func TestRunPipeline_EndToEnd(t *testing.T) {
	server := testGallery(t)
	session := &scriptedSession{listings: [][]string{
		{server.URL + "/white.png", server.URL + "/dark1.png"},
		{server.URL + "/white.png", server.URL + "/dark1.png", server.URL + "/dark2.png"},
	}}
	cfg := testConfig(t)

	var steps []string
	result, err := RunPipeline(context.Background(), RunOptions{
		Config:      cfg,
		Session:     session,
		Enumerators: twoMonitors(),
		OnProgress:  func(e ProgressEvent) { steps = append(steps, e.Step) },
	})
	require.NoError(t, err)

	// The white image was collected but rejected for brightness, so the
	// second pass had to find a replacement.
	require.Len(t, result.Used, 2)
	assert.Equal(t, server.URL+"/dark1.png", result.Used[0].ImageURL)
	assert.Equal(t, server.URL+"/dark2.png", result.Used[1].ImageURL)

	out, err := imaging.Open(result.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, 384, out.Bounds().Dx())
	assert.Equal(t, 108, out.Bounds().Dy())

	// Only the used URLs are recorded.
	hist := history.Load(cfg.HistoryPath)
	assert.Len(t, hist, 2)
	assert.True(t, hist.Contains(server.URL+"/dark1.png"))
	assert.False(t, hist.Contains(server.URL+"/white.png"))

	assert.True(t, session.closed, "session must be released")
	assert.Contains(t, steps, "collect")
	assert.Contains(t, steps, "stitch")
}

func TestRunPipeline_CandidatesHaveDimensions(t *testing.T) {
	server := testGallery(t)
	session := &scriptedSession{listings: [][]string{
		{server.URL + "/dark1.png", server.URL + "/dark2.png"},
	}}

	result, err := RunPipeline(context.Background(), RunOptions{
		Config:      testConfig(t),
		Session:     session,
		Enumerators: twoMonitors(),
	})
	require.NoError(t, err)

	for _, c := range result.Used {
		assert.True(t, c.HasDimensions)
		assert.Equal(t, 192, c.Width)
		assert.Equal(t, "16:9", c.AspectRatio)
	}
}

func TestRunPipeline_NotEnoughImages(t *testing.T) {
	server := testGallery(t)
	session := &scriptedSession{listings: [][]string{
		{server.URL + "/dark1.png"},
	}}

	cfg := testConfig(t)
	_, err := RunPipeline(context.Background(), RunOptions{
		Config:      cfg,
		Session:     session,
		Enumerators: twoMonitors(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usable images")

	// A failed run records nothing.
	assert.Empty(t, history.Load(cfg.HistoryPath))
	assert.True(t, session.closed)
}

func TestRunPipeline_SessionFailure(t *testing.T) {
	session := &scriptedSession{fail: true}

	_, err := RunPipeline(context.Background(), RunOptions{
		Config:      testConfig(t),
		Session:     session,
		Enumerators: twoMonitors(),
	})
	require.Error(t, err)
	assert.True(t, session.closed)
}

func TestRunPipeline_HistorySkipsPreviouslyUsed(t *testing.T) {
	server := testGallery(t)
	cfg := testConfig(t)
	require.NoError(t, history.Append(cfg.HistoryPath, []string{server.URL + "/dark1.png"}))

	session := &scriptedSession{listings: [][]string{
		{server.URL + "/dark1.png", server.URL + "/dark2.png"},
	}}

	// Only one monitor, and the one fresh image goes to it.
	enums := []monitor.Enumerator{monitor.StaticEnumerator{Monitors: []monitor.Monitor{
		{Index: 0, Name: "DP-1", Width: 192, Height: 108, Primary: true},
	}}}

	result, err := RunPipeline(context.Background(), RunOptions{
		Config:      cfg,
		Session:     session,
		Enumerators: enums,
	})
	require.NoError(t, err)
	require.Len(t, result.Used, 1)
	assert.Equal(t, server.URL+"/dark2.png", result.Used[0].ImageURL)
}

func TestRunPipeline_CountBelowMonitorsRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 1

	_, err := RunPipeline(context.Background(), RunOptions{
		Config:      cfg,
		Session:     &scriptedSession{},
		Enumerators: twoMonitors(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fewer than")
}
