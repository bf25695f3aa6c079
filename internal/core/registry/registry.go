// Package registry ties the project configuration, the lockfile and the stored
// capability documents of registered apps together.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nightconcept/capctl/internal/core/capability"
	"github.com/nightconcept/capctl/internal/core/config"
	"github.com/nightconcept/capctl/internal/core/conflict"
	"github.com/nightconcept/capctl/internal/core/hasher"
	"github.com/nightconcept/capctl/internal/core/lockfile"
)

// ErrHashMismatch is returned when fetched content differs from the locked
// version.
var ErrHashMismatch = errors.New("content does not match the locked hash")

// ErrInvalidName is returned for app names that cannot serve as the file name
// of a stored document.
var ErrInvalidName = errors.New("invalid app name")

// ValidateName rejects names that are empty or would place the document of
// the app outside the apps directory.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\:`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w '%s': name must not contain path separators or '..'", ErrInvalidName, name)
	}
	return nil
}

// Status describes the stored document of a registered app.
type Status string

const (
	StatusOK       Status = "ok"
	StatusModified Status = "modified"
	StatusMissing  Status = "missing"
)

// Registry is the set of apps registered in a project.
type Registry struct {
	Root       string
	Config     *config.Config
	ConfigPath string
	Lock       *lockfile.Lockfile
	Target     capability.Target
}

// Open loads the config and lockfile found in root.
func Open(root string) (*Registry, error) {
	cfg, cfgPath, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	target, err := cfg.SystemTarget()
	if err != nil {
		return nil, err
	}
	lf, err := lockfile.Load(root)
	if err != nil {
		return nil, err
	}
	return &Registry{Root: root, Config: cfg, ConfigPath: cfgPath, Lock: lf, Target: target}, nil
}

// Save writes the lockfile back.
func (r *Registry) Save() error {
	return lockfile.Save(r.Root, r.Lock)
}

// AppsDir is the absolute or root-relative directory documents are stored in.
func (r *Registry) AppsDir() string {
	return r.Config.AppsDir(r.Root)
}

// DocumentPath returns where the document of a lock entry lives on disk.
func (r *Registry) DocumentPath(entry lockfile.AppEntry) string {
	if filepath.IsAbs(entry.Path) {
		return entry.Path
	}
	return filepath.Join(r.Root, filepath.FromSlash(entry.Path))
}

// RelativePath converts a path below Root into the slash-separated form kept
// in the lockfile. Paths outside Root are returned unchanged.
func (r *Registry) RelativePath(path string) string {
	rel, err := filepath.Rel(r.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// Status compares the stored document of name with its locked hash.
func (r *Registry) Status(name string) (Status, error) {
	entry, ok := r.Lock.Apps[name]
	if !ok {
		return "", fmt.Errorf("app '%s' is not registered", name)
	}
	data, err := os.ReadFile(r.DocumentPath(entry))
	if errors.Is(err, os.ErrNotExist) {
		return StatusMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document of '%s': %w", name, err)
	}
	ok, err = hasher.Verify(data, entry.Hash)
	if err != nil {
		return "", fmt.Errorf("failed to verify document of '%s': %w", name, err)
	}
	if !ok {
		return StatusModified, nil
	}
	return StatusOK, nil
}

// LoadApp decodes the stored document of name.
func (r *Registry) LoadApp(name string) (conflict.App, error) {
	entry, ok := r.Lock.Apps[name]
	if !ok {
		return conflict.App{}, fmt.Errorf("app '%s' is not registered", name)
	}
	path := r.DocumentPath(entry)
	file, err := os.Open(path)
	if err != nil {
		return conflict.App{}, fmt.Errorf("failed to open document of '%s': %w", name, err)
	}
	defer func() { _ = file.Close() }()

	l, err := capability.Decode(file)
	if err != nil {
		return conflict.App{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return conflict.App{Name: name, Lists: []*capability.List{l}}, nil
}

// Apps decodes every registered app except the ones named in skip, in name
// order.
func (r *Registry) Apps(skip ...string) ([]conflict.App, error) {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}
	var apps []conflict.App
	for _, name := range r.Lock.Names() {
		if skipped[name] {
			continue
		}
		app, err := r.LoadApp(name)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// Index builds a conflict index over all registered apps except skip.
func (r *Registry) Index(skip ...string) (*conflict.Index, error) {
	apps, err := r.Apps(skip...)
	if err != nil {
		return nil, err
	}
	return conflict.NewIndex(r.Target.OS, apps...), nil
}

// RequiresMachineWide reports whether any capability of app can only be
// registered for all users on the configured target.
func (r *Registry) RequiresMachineWide(app conflict.App) bool {
	for _, l := range app.Lists {
		if !l.OS.IsCompatible(r.Target.OS) {
			continue
		}
		for _, c := range l.Entries {
			if c.MachineWideOnly(r.Target) {
				return true
			}
		}
	}
	return false
}

// Store writes data as the document of name below AppsDir and records it in
// the lockfile. The lockfile itself is written by Save.
func (r *Registry) Store(name, source string, data []byte, machineWide bool) (lockfile.AppEntry, error) {
	if err := ValidateName(name); err != nil {
		return lockfile.AppEntry{}, err
	}
	dir := r.AppsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return lockfile.AppEntry{}, fmt.Errorf("failed to create apps directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".xml")
	if entry, ok := r.Lock.Apps[name]; ok {
		path = r.DocumentPath(entry)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return lockfile.AppEntry{}, fmt.Errorf("failed to write document of '%s': %w", name, err)
	}

	hash, err := hasher.CalculateSHA256(data)
	if err != nil {
		return lockfile.AppEntry{}, err
	}
	entry := lockfile.AppEntry{
		Source:      source,
		Path:        r.RelativePath(path),
		Hash:        hash,
		MachineWide: machineWide,
	}
	r.Lock.AddOrUpdateApp(name, entry)
	return entry, nil
}

// Delete removes the stored document of name and its lockfile entry. A
// document that is already gone is not an error.
func (r *Registry) Delete(name string) error {
	entry, ok := r.Lock.Apps[name]
	if !ok {
		return fmt.Errorf("app '%s' is not registered", name)
	}
	if err := os.Remove(r.DocumentPath(entry)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete document of '%s': %w", name, err)
	}
	r.Lock.RemoveApp(name)
	return nil
}

// Register validates a fetched document and stores it as the app called name,
// replacing any earlier registration of that name. The document must decode,
// must not conflict with itself and must not conflict with any other
// registered app. Warnings describe problems that do not prevent
// registration. The lockfile is not saved.
func (r *Registry) Register(name, source string, data []byte) (lockfile.AppEntry, []string, error) {
	if err := ValidateName(name); err != nil {
		return lockfile.AppEntry{}, nil, err
	}
	l, err := capability.DecodeBytes(data)
	if err != nil {
		return lockfile.AppEntry{}, nil, fmt.Errorf("failed to decode document of '%s': %w", name, err)
	}

	var warnings []string
	if !l.OS.IsCompatible(r.Target.OS) {
		warnings = append(warnings, fmt.Sprintf("'%s' targets %s, its capabilities do not apply on %s", name, l.OS, r.Target.OS))
	}

	app := conflict.App{Name: name, Lists: []*capability.List{l}}
	if inner := conflict.InnerConflicts(r.Target.OS, app); len(inner) > 0 {
		return lockfile.AppEntry{}, warnings, &conflict.Error{Conflicts: inner}
	}
	idx, err := r.Index(name)
	if err != nil {
		return lockfile.AppEntry{}, warnings, err
	}
	if err := idx.Check(app); err != nil {
		return lockfile.AppEntry{}, warnings, err
	}

	machineWide := r.RequiresMachineWide(app)
	if machineWide && !r.Config.Integration.MachineWide {
		warnings = append(warnings, fmt.Sprintf("'%s' can only be registered machine-wide on %s; set integration.machine_wide to true", name, r.Target.OS))
	}
	entry, err := r.Store(name, source, data, machineWide)
	return entry, warnings, err
}

// Select returns the registered apps among names, or every registered app when
// names is empty. Names that are not registered are returned separately.
func (r *Registry) Select(names []string) (selected, unknown []string) {
	if len(names) == 0 {
		return r.Lock.Names(), nil
	}
	for _, name := range names {
		if _, ok := r.Lock.Apps[name]; ok {
			selected = append(selected, name)
		} else {
			unknown = append(unknown, name)
		}
	}
	return selected, unknown
}

// Restore writes data as the document of an already registered app without
// touching its lockfile entry. data must match the locked hash.
func (r *Registry) Restore(name string, data []byte) error {
	entry, ok := r.Lock.Apps[name]
	if !ok {
		return fmt.Errorf("app '%s' is not registered", name)
	}
	ok, err := hasher.Verify(data, entry.Hash)
	if err != nil {
		return fmt.Errorf("failed to verify document of '%s': %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: '%s' from %s", ErrHashMismatch, name, entry.Source)
	}
	path := r.DocumentPath(entry)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document of '%s': %w", name, err)
	}
	return nil
}
