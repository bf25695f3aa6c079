// Package lockfile_test contains tests for the lockfile package.
package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/capctl/internal/core/lockfile"
)

func TestNewLockfile(t *testing.T) {
	t.Parallel()
	lf := lockfile.New()
	assert.NotNil(t, lf, "New lockfile should not be nil")
	assert.Equal(t, lockfile.APIVersion, lf.ApiVersion, "API version mismatch")
	assert.NotNil(t, lf.Apps, "Apps map should be initialized")
	assert.Empty(t, lf.Apps, "Apps map should be empty initially")
}

func TestLoadLockfile_NotFound(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	lf, err := lockfile.Load(tempDir)
	require.NoError(t, err, "Load should not return error if lockfile not found")
	assert.NotNil(t, lf, "Loaded lockfile should not be nil even if not found")
	assert.Equal(t, lockfile.APIVersion, lf.ApiVersion, "API version mismatch for new lockfile")
	assert.Empty(t, lf.Apps, "Apps map should be empty for new lockfile")
}

func TestLoadLockfile_Valid(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, lockfile.LockfileName)

	content := `
api_version = "1"
[apps.editor]
  source = "https://example.com/editor.xml"
  path = "capabilities/editor.xml"
  hash = "sha256:abcdef123456"
  machine_wide = true
`
	err := os.WriteFile(lockfilePath, []byte(content), 0600)
	require.NoError(t, err, "Failed to write mock lockfile")

	lf, err := lockfile.Load(tempDir)
	require.NoError(t, err, "Load returned an unexpected error for valid lockfile")
	assert.Equal(t, "1", lf.ApiVersion)
	require.Contains(t, lf.Apps, "editor")
	assert.Equal(t, lockfile.AppEntry{
		Source:      "https://example.com/editor.xml",
		Path:        "capabilities/editor.xml",
		Hash:        "sha256:abcdef123456",
		MachineWide: true,
	}, lf.Apps["editor"])
}

func TestLoadLockfile_InvalidToml(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, lockfile.LockfileName)

	content := `api_version = "1" this is invalid toml`
	err := os.WriteFile(lockfilePath, []byte(content), 0600)
	require.NoError(t, err, "Failed to write mock invalid lockfile")

	_, err = lockfile.Load(tempDir)
	require.Error(t, err, "Load should return an error for invalid TOML")
	assert.Contains(t, err.Error(), "failed to decode lockfile", "Error message mismatch")
}

func TestLoadLockfile_EmptyFile(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, lockfile.LockfileName)

	err := os.WriteFile(lockfilePath, []byte(""), 0600)
	require.NoError(t, err, "Failed to write empty mock lockfile")

	lf, err := lockfile.Load(tempDir)
	require.NoError(t, err, "Load should not error on an empty file")
	assert.Equal(t, lockfile.APIVersion, lf.ApiVersion, "API version should default for empty file")
	assert.NotNil(t, lf.Apps)
	assert.Empty(t, lf.Apps, "Apps should be empty for empty file")
}

func TestLoadLockfile_MissingApiVersion(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, lockfile.LockfileName)
	content := `
[apps.editor]
  source = "editor.xml"
  path = "capabilities/editor.xml"
  hash = "sha256:abcdef123456"
`
	err := os.WriteFile(lockfilePath, []byte(content), 0600)
	require.NoError(t, err, "Failed to write mock lockfile without api_version")

	lf, err := lockfile.Load(tempDir)
	require.NoError(t, err, "Load should not error if api_version is missing")
	assert.Equal(t, lockfile.APIVersion, lf.ApiVersion, "API version should default if missing")
	require.Contains(t, lf.Apps, "editor")
	assert.False(t, lf.Apps["editor"].MachineWide)
}

func TestSaveLockfile_New(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	lf := lockfile.New()
	lf.AddOrUpdateApp("viewer", lockfile.AppEntry{
		Source: "https://example.com/viewer.xml",
		Path:   "capabilities/viewer.xml",
		Hash:   "sha256:123",
	})

	err := lockfile.Save(tempDir, lf)
	require.NoError(t, err, "Save returned an unexpected error")

	_, err = os.Stat(filepath.Join(tempDir, lockfile.LockfileName))
	require.NoError(t, err, "Lockfile was not created")

	loadedLf, err := lockfile.Load(tempDir)
	require.NoError(t, err, "Failed to load saved lockfile")
	assert.Equal(t, lf, loadedLf, "Saved and loaded lockfiles do not match")
}

func TestSaveLockfile_Overwrite(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, lockfile.LockfileName)

	err := os.WriteFile(lockfilePath, []byte(`api_version = "0.5"`), 0600)
	require.NoError(t, err, "Failed to write initial mock lockfile")

	lfToSave := lockfile.New()
	lfToSave.AddOrUpdateApp("player", lockfile.AppEntry{Source: "player.xml", Path: "capabilities/player.xml", Hash: "sha256:abc"})

	err = lockfile.Save(tempDir, lfToSave)
	require.NoError(t, err, "Save returned an unexpected error when overwriting")

	loadedLf, err := lockfile.Load(tempDir)
	require.NoError(t, err, "Failed to load overwritten lockfile")
	assert.Equal(t, lfToSave.ApiVersion, loadedLf.ApiVersion)
	assert.Equal(t, lfToSave.Apps["player"], loadedLf.Apps["player"])
}

func TestAddOrUpdateApp(t *testing.T) {
	t.Parallel()
	lf := lockfile.New()

	lf.AddOrUpdateApp("appA", lockfile.AppEntry{Source: "urlA", Path: "pathA", Hash: "hashA"})
	require.Contains(t, lf.Apps, "appA")
	assert.Equal(t, "urlA", lf.Apps["appA"].Source)

	lf.AddOrUpdateApp("appA", lockfile.AppEntry{Source: "urlA_updated", Path: "pathA_updated", Hash: "hashA_updated", MachineWide: true})
	assert.Equal(t, "pathA_updated", lf.Apps["appA"].Path)
	assert.True(t, lf.Apps["appA"].MachineWide)

	lf.AddOrUpdateApp("appB", lockfile.AppEntry{Source: "urlB"})
	assert.Len(t, lf.Apps, 2, "Incorrect number of apps after adding multiple")
}

func TestAddOrUpdateApp_NilMap(t *testing.T) {
	t.Parallel()
	lf := &lockfile.Lockfile{ApiVersion: "1", Apps: nil}

	lf.AddOrUpdateApp("appC", lockfile.AppEntry{Source: "urlC"})
	require.NotNil(t, lf.Apps, "Apps map should be initialized by AddOrUpdateApp")
	assert.Equal(t, "urlC", lf.Apps["appC"].Source)
}

func TestRemoveAppAndNames(t *testing.T) {
	t.Parallel()
	lf := lockfile.New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		lf.AddOrUpdateApp(name, lockfile.AppEntry{Source: name + ".xml"})
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, lf.Names())

	assert.True(t, lf.RemoveApp("mid"))
	assert.False(t, lf.RemoveApp("mid"))
	assert.Equal(t, []string{"alpha", "zeta"}, lf.Names())
}
