package localcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverride(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

func TestForPath_Direct(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "id = 42\noffset = -12\n")

	override, err := ForPath(dir)
	require.NoError(t, err)
	assert.Equal(t, 42, override.ID)
	assert.Equal(t, -12, override.Offset)
	assert.True(t, override.HasID())
}

func TestForPath_WalksUpToParent(t *testing.T) {
	root := t.TempDir()
	season := filepath.Join(root, "Show Name", "Season 02")
	require.NoError(t, os.MkdirAll(season, 0o755))
	writeOverride(t, root, "id = 7\n")

	override, err := ForPath(season)
	require.NoError(t, err)
	assert.Equal(t, 7, override.ID)
}

func TestForPath_NearestWins(t *testing.T) {
	root := t.TempDir()
	season := filepath.Join(root, "Season 01")
	require.NoError(t, os.MkdirAll(season, 0o755))
	writeOverride(t, root, "id = 1\noffset = 5\n")
	writeOverride(t, season, "id = 2\n")

	override, err := ForPath(season)
	require.NoError(t, err)
	assert.Equal(t, 2, override.ID)
	// Fields do not merge across levels.
	assert.Zero(t, override.Offset)
}

func TestForPath_FileArgumentUsesItsFolder(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "type = \"special\"\n")

	override, err := ForPath(filepath.Join(dir, "episode 01.mkv"))
	require.NoError(t, err)
	assert.Equal(t, "special", override.Type)
}

func TestForPath_NoFile(t *testing.T) {
	override, err := ForPath(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Override{}, override)
	assert.False(t, override.HasID())
}

func TestForPath_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "id = {broken\n")

	_, err := ForPath(dir)
	assert.Error(t, err)
}
