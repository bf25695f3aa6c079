package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/capctl/internal/core/capability"
	"github.com/nightconcept/capctl/internal/core/config"
	"github.com/nightconcept/capctl/internal/core/conflict"
	"github.com/nightconcept/capctl/internal/core/hasher"
	"github.com/nightconcept/capctl/internal/core/lockfile"
	"github.com/nightconcept/capctl/internal/core/registry"
)

const windowsConfig = `
[target]
os = "Windows"
version = "6.1"

[integration]
apps_dir = "apps"
`

func writeDocument(t *testing.T, root, name string, l *capability.List) lockfile.AppEntry {
	t.Helper()
	data, err := capability.EncodeBytes(l)
	require.NoError(t, err)
	rel := "apps/" + name + ".xml"
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	hash, err := hasher.CalculateSHA256(data)
	require.NoError(t, err)
	return lockfile.AppEntry{Source: path, Path: rel, Hash: hash}
}

func setupRegistry(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ConfigFileName), []byte(windowsConfig), 0644))

	lf := lockfile.New()
	lf.AddOrUpdateApp("viewer", writeDocument(t, root, "viewer", capability.NewList(capability.OSAll,
		&capability.FileType{Base: capability.Base{ID: "Viewer.Image"}})))
	lf.AddOrUpdateApp("mailer", writeDocument(t, root, "mailer", capability.NewList(capability.OSWindows,
		&capability.DefaultProgram{Base: capability.Base{ID: "Mailer"}, Service: capability.ServiceMail})))
	require.NoError(t, lockfile.Save(root, lf))
	return root
}

func TestOpen(t *testing.T) {
	t.Parallel()
	root := setupRegistry(t)
	reg, err := registry.Open(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, config.ConfigFileName), reg.ConfigPath)
	assert.Equal(t, capability.OSWindows, reg.Target.OS)
	assert.False(t, reg.Target.IsWindows8OrNewer())
	assert.Equal(t, filepath.Join(root, "apps"), reg.AppsDir())
	assert.Equal(t, []string{"mailer", "viewer"}, reg.Lock.Names())
}

func TestApps(t *testing.T) {
	t.Parallel()
	root := setupRegistry(t)
	reg, err := registry.Open(root)
	require.NoError(t, err)

	apps, err := reg.Apps()
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "mailer", apps[0].Name)
	assert.True(t, reg.RequiresMachineWide(apps[0]))
	assert.False(t, reg.RequiresMachineWide(apps[1]))

	skipped, err := reg.Apps("mailer")
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Equal(t, "viewer", skipped[0].Name)

	idx, err := reg.Index()
	require.NoError(t, err)
	err = idx.Check(conflict.App{Name: "editor", Lists: []*capability.List{capability.NewList(capability.OSAll,
		&capability.UrlProtocol{Base: capability.Base{ID: "Viewer.Image"}})}})
	var conflictErr *conflict.Error
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "viewer", conflictErr.Conflicts[0].Existing.App)
}

func TestStatus(t *testing.T) {
	t.Parallel()
	root := setupRegistry(t)
	reg, err := registry.Open(root)
	require.NoError(t, err)

	status, err := reg.Status("viewer")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusOK, status)

	require.NoError(t, os.WriteFile(filepath.Join(root, "apps", "viewer.xml"), []byte("<capabilities/>"), 0644))
	status, err = reg.Status("viewer")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusModified, status)

	require.NoError(t, os.Remove(filepath.Join(root, "apps", "mailer.xml")))
	status, err = reg.Status("mailer")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusMissing, status)

	_, err = reg.Apps()
	assert.Error(t, err, "a missing document cannot be loaded")

	_, err = reg.Status("unknown")
	assert.Error(t, err)
}

func TestRelativePath(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	reg := &registry.Registry{Root: root}
	assert.Equal(t, "apps/a.xml", reg.RelativePath(filepath.Join(root, "apps", "a.xml")))

	outside := filepath.Join(filepath.Dir(root), "elsewhere.xml")
	assert.Equal(t, outside, reg.RelativePath(outside))
	assert.Equal(t, outside, reg.DocumentPath(lockfile.AppEntry{Path: outside}))
}

func TestStoreAndDelete(t *testing.T) {
	t.Parallel()
	root := setupRegistry(t)
	reg, err := registry.Open(root)
	require.NoError(t, err)

	data := []byte(`<capabilities xmlns="http://0install.de/schema/desktop-integration/capabilities"/>`)
	entry, err := reg.Store("editor", "github:o/r/editor.xml@main", data, true)
	require.NoError(t, err)
	assert.Equal(t, "apps/editor.xml", entry.Path)
	assert.True(t, entry.MachineWide)
	assert.Equal(t, entry, reg.Lock.Apps["editor"])

	stored, err := os.ReadFile(filepath.Join(root, "apps", "editor.xml"))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
	status, err := reg.Status("editor")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusOK, status)

	require.NoError(t, reg.Save())
	reopened, err := registry.Open(root)
	require.NoError(t, err)
	assert.Contains(t, reopened.Lock.Names(), "editor")

	require.NoError(t, reopened.Delete("editor"))
	assert.NoFileExists(t, filepath.Join(root, "apps", "editor.xml"))
	assert.NotContains(t, reopened.Lock.Names(), "editor")

	require.NoError(t, os.Remove(filepath.Join(root, "apps", "viewer.xml")))
	assert.NoError(t, reopened.Delete("viewer"), "a missing document is not an error")
	assert.Error(t, reopened.Delete("viewer"))
}

func TestStore_RejectsUnsafeNames(t *testing.T) {
	t.Parallel()
	root := setupRegistry(t)
	reg, err := registry.Open(root)
	require.NoError(t, err)

	data := []byte(`<capabilities xmlns="http://0install.de/schema/desktop-integration/capabilities"/>`)
	for _, name := range []string{"", "../../escaped", "nested/app", `nested\app`, "..", "c:app"} {
		_, err := reg.Store(name, "escaped.xml", data, false)
		assert.ErrorIs(t, err, registry.ErrInvalidName, "name %q", name)
		_, _, err = reg.Register(name, "escaped.xml", data)
		assert.ErrorIs(t, err, registry.ErrInvalidName, "name %q", name)
	}
	assert.NoFileExists(t, filepath.Join(root, "escaped.xml"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escaped.xml"))
	assert.NotContains(t, reg.Lock.Names(), "../../escaped")

	assert.NoError(t, registry.ValidateName("image-viewer.v2"))
}

func TestRegister(t *testing.T) {
	t.Parallel()
	encode := func(l *capability.List) []byte {
		data, err := capability.EncodeBytes(l)
		require.NoError(t, err)
		return data
	}

	t.Run("stores a document without conflicts", func(t *testing.T) {
		root := setupRegistry(t)
		reg, err := registry.Open(root)
		require.NoError(t, err)

		entry, warnings, err := reg.Register("editor", "editor.xml", encode(capability.NewList(capability.OSAll,
			&capability.UrlProtocol{Base: capability.Base{ID: "editor"}})))
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.False(t, entry.MachineWide)
		assert.FileExists(t, filepath.Join(root, "apps", "editor.xml"))
	})

	t.Run("rejects a conflicting document", func(t *testing.T) {
		root := setupRegistry(t)
		reg, err := registry.Open(root)
		require.NoError(t, err)

		_, _, err = reg.Register("editor", "editor.xml", encode(capability.NewList(capability.OSAll,
			&capability.UrlProtocol{Base: capability.Base{ID: "Viewer.Image"}})))
		var conflictErr *conflict.Error
		require.ErrorAs(t, err, &conflictErr)
		assert.NoFileExists(t, filepath.Join(root, "apps", "editor.xml"))
		assert.NotContains(t, reg.Lock.Names(), "editor")
	})

	t.Run("rejects inner conflicts", func(t *testing.T) {
		root := setupRegistry(t)
		reg, err := registry.Open(root)
		require.NoError(t, err)

		_, _, err = reg.Register("editor", "editor.xml", encode(capability.NewList(capability.OSAll,
			&capability.FileType{Base: capability.Base{ID: "Editor"}},
			&capability.UrlProtocol{Base: capability.Base{ID: "Editor"}})))
		var conflictErr *conflict.Error
		require.ErrorAs(t, err, &conflictErr)
	})

	t.Run("replaces its own registration", func(t *testing.T) {
		root := setupRegistry(t)
		reg, err := registry.Open(root)
		require.NoError(t, err)

		changed := &capability.FileType{Base: capability.Base{ID: "Viewer.Image"}}
		changed.AddExtension(capability.FileTypeExtension{Value: ".png"})
		_, _, err = reg.Register("viewer", "viewer.xml", encode(capability.NewList(capability.OSAll, changed)))
		require.NoError(t, err)
		assert.Equal(t, "viewer.xml", reg.Lock.Apps["viewer"].Source)
	})

	t.Run("warns about machine-wide and incompatible documents", func(t *testing.T) {
		root := setupRegistry(t)
		reg, err := registry.Open(root)
		require.NoError(t, err)

		entry, warnings, err := reg.Register("shell", "shell.xml", encode(capability.NewList(capability.OSWindows,
			&capability.DefaultProgram{Base: capability.Base{ID: "Shell"}, Service: "StartMenuInternet"})))
		require.NoError(t, err)
		assert.True(t, entry.MachineWide)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "machine-wide")

		_, warnings, err = reg.Register("penguin", "penguin.xml", encode(capability.NewList(capability.OSLinux,
			&capability.UrlProtocol{Base: capability.Base{ID: "penguin"}})))
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "do not apply on Windows")
	})

	t.Run("rejects other documents", func(t *testing.T) {
		root := setupRegistry(t)
		reg, err := registry.Open(root)
		require.NoError(t, err)

		_, _, err = reg.Register("broken", "broken.xml", []byte("<feed/>"))
		assert.ErrorIs(t, err, capability.ErrInvalidDocument)
	})
}

func TestSelect(t *testing.T) {
	t.Parallel()
	reg, err := registry.Open(setupRegistry(t))
	require.NoError(t, err)

	selected, unknown := reg.Select(nil)
	assert.Equal(t, []string{"mailer", "viewer"}, selected)
	assert.Empty(t, unknown)

	selected, unknown = reg.Select([]string{"viewer", "ghost"})
	assert.Equal(t, []string{"viewer"}, selected)
	assert.Equal(t, []string{"ghost"}, unknown)
}

func TestRestore(t *testing.T) {
	t.Parallel()
	root := setupRegistry(t)
	reg, err := registry.Open(root)
	require.NoError(t, err)

	path := filepath.Join(root, "apps", "viewer.xml")
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "apps")))

	err = reg.Restore("viewer", []byte("<capabilities/>"))
	assert.ErrorIs(t, err, registry.ErrHashMismatch)
	assert.NoFileExists(t, path)

	require.NoError(t, reg.Restore("viewer", original))
	status, err := reg.Status("viewer")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusOK, status)

	assert.Error(t, reg.Restore("ghost", original))
}
