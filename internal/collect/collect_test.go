package collect

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/wallpaper-agent/internal/gallery"
)

// fakeSession replays a fixed sequence of listings, one per reshuffle.
type fakeSession struct {
	listings   [][]string
	shuffles   int
	failAt     int // reshuffle number that fails, 0 disables
	listFailAt int // listing read that fails, 0 disables
	closed     bool
}

func (f *fakeSession) Reshuffle(context.Context) error {
	f.shuffles++
	if f.failAt > 0 && f.shuffles >= f.failAt {
		return &gallery.SessionError{Op: "reshuffle", Cause: fmt.Errorf("driver gone")}
	}
	return nil
}

func (f *fakeSession) CurrentLinks(context.Context) ([]string, error) {
	if f.listFailAt > 0 && f.shuffles >= f.listFailAt {
		return nil, &gallery.SessionError{Op: "list", Cause: fmt.Errorf("stale element")}
	}
	idx := f.shuffles - 1
	if idx >= len(f.listings) {
		idx = len(f.listings) - 1
	}
	if idx < 0 {
		return nil, nil
	}
	return f.listings[idx], nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func urls(c []Candidate) []string {
	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.ImageURL
	}
	return out
}

func TestCollect_SingleListing(t *testing.T) {
	session := &fakeSession{listings: [][]string{{"u1", "u2", "u3"}}}

	got, err := Collect(context.Background(), session, nil, Options{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, urls(got))
	assert.Equal(t, 1, session.shuffles, "no extra reshuffles once count is reached")
}

func TestCollect_SkipSetAndDuplicates(t *testing.T) {
	session := &fakeSession{listings: [][]string{
		{"seen", "u1", "u1"},
		{"u1", "u2"},
		{"seen", "u3"},
	}}
	skip := map[string]struct{}{"seen": {}}

	got, err := Collect(context.Background(), session, nil, Options{Count: 3, Skip: skip})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2", "u3"}, urls(got))

	// No duplicates, nothing from the skip-set.
	unique := map[string]int{}
	for _, u := range urls(got) {
		unique[u]++
		assert.NotContains(t, skip, u)
	}
	for u, n := range unique {
		assert.Equal(t, 1, n, "duplicate URL %s", u)
	}
}

func TestCollect_AttemptBudgetExhausted(t *testing.T) {
	// Every listing repeats the same URL, so only one candidate can exist.
	session := &fakeSession{listings: [][]string{{"u1"}}}

	got, err := Collect(context.Background(), session, nil, Options{Count: 5, MaxAttempts: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, urls(got))
	assert.Equal(t, 4, session.shuffles)
}

func TestCollect_MonotonicInMaxAttempts(t *testing.T) {
	// Fixed listings: each attempt surfaces one new URL.
	listings := [][]string{{"u1"}, {"u2"}, {"u3"}, {"u4"}, {"u5"}}

	prev := 0
	for attempts := 1; attempts <= 5; attempts++ {
		session := &fakeSession{listings: listings}
		got, err := Collect(context.Background(), session, nil, Options{Count: 5, MaxAttempts: attempts})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(got), prev, "collected length must not shrink as the budget grows")
		prev = len(got)
	}
	assert.Equal(t, 5, prev)
}

func TestCollect_ReshuffleFailureReturnsPartial(t *testing.T) {
	session := &fakeSession{
		listings: [][]string{{"u1"}, {"u2"}},
		failAt:   2,
	}

	got, err := Collect(context.Background(), session, nil, Options{Count: 3})
	require.Error(t, err)
	var sessionErr *gallery.SessionError
	assert.ErrorAs(t, err, &sessionErr)
	assert.Equal(t, []string{"u1"}, urls(got), "work done before the failure is kept")
}

func TestCollect_ListingFailureReturnsPartial(t *testing.T) {
	session := &fakeSession{
		listings:   [][]string{{"u1"}, {"u2"}},
		listFailAt: 2,
	}

	got, err := Collect(context.Background(), session, nil, Options{Count: 3})
	require.Error(t, err)
	assert.Equal(t, []string{"u1"}, urls(got))
}

func TestCollect_ProbeFailureKeepsCandidate(t *testing.T) {
	session := &fakeSession{listings: [][]string{{"u1", "u2"}}}
	probe := func(_ context.Context, url string) (int, int, error) {
		if url == "u1" {
			return 0, 0, fmt.Errorf("timeout")
		}
		return 2560, 1080, nil
	}

	got, err := Collect(context.Background(), session, probe, Options{Count: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.False(t, got[0].HasDimensions)
	assert.Empty(t, got[0].AspectRatio)

	assert.True(t, got[1].HasDimensions)
	assert.Equal(t, "64:45", got[1].AspectRatio)
	assert.InDelta(t, 2.3704, got[1].AspectRatioFloat, 1e-9)
}

func TestCollect_NonPositiveCount(t *testing.T) {
	session := &fakeSession{listings: [][]string{{"u1"}}}

	got, err := Collect(context.Background(), session, nil, Options{Count: 0})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, session.shuffles)
}

func TestNewCandidate_DerivedFields(t *testing.T) {
	c := NewCandidate("u", 1920, 1080)
	assert.Equal(t, "16:9", c.AspectRatio)
	assert.InDelta(t, 1.7778, c.AspectRatioFloat, 1e-9)

	c = NewCandidate("u", 0, 1080)
	assert.False(t, c.HasDimensions)
}
