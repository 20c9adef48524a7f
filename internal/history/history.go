// Package history persists the set of image URLs that were already used, so
// repeated runs never pick the same wallpaper twice. Storage is a
// newline-delimited text file; the set only ever grows.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Set is the in-memory form of the history file.
type Set map[string]struct{}

// Contains reports whether the URL was recorded by an earlier run.
func (s Set) Contains(url string) bool {
	_, ok := s[url]
	return ok
}

// Load reads previously recorded URLs from path. Any read error, including a
// missing file on first run, yields an empty set rather than failing the
// caller.
func Load(path string) Set {
	set := Set{}
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.With("component", "history").Warn("could not read history", "path", path, "err", err)
		}
		return set
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			set[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		log.With("component", "history").Warn("history read interrupted", "path", path, "err", err)
	}
	return set
}

// Append records URLs at the end of the history file, creating the file and
// its parent directory if needed. History writes are best-effort: the caller
// may ignore the returned error, the main pipeline never aborts on it.
func Append(path string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	for _, u := range urls {
		if _, err := fmt.Fprintln(f, u); err != nil {
			return fmt.Errorf("append history %s: %w", path, err)
		}
	}
	return nil
}
