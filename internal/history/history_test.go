package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")

	require.NoError(t, Append(path, []string{"u1", "u2"}))

	set := Load(path)
	assert.Len(t, set, 2)
	assert.True(t, set.Contains("u1"))
	assert.True(t, set.Contains("u2"))
	assert.False(t, set.Contains("u3"))
}

func TestLoad_MissingFile(t *testing.T) {
	set := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Empty(t, set)
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	require.NoError(t, os.WriteFile(path, []byte("u1\n\n  \nu2\n"), 0o644))

	set := Load(path)
	assert.Len(t, set, 2)
}

func TestAppend_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "history.txt")

	require.NoError(t, Append(path, []string{"u1"}))

	assert.True(t, Load(path).Contains("u1"))
}

func TestAppend_AccumulatesAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")

	require.NoError(t, Append(path, []string{"u1"}))
	require.NoError(t, Append(path, []string{"u2", "u3"}))

	set := Load(path)
	assert.Len(t, set, 3)
}

func TestAppend_NoURLsIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	require.NoError(t, Append(path, nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty append should not create the file")
}
