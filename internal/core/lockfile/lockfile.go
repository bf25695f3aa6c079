package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

const LockfileName = "capctl-lock.toml"
const APIVersion = "1"

// AppEntry represents a single registered app in the lockfile.
// Example:
// [apps."app-name"]
//
//	source = "where the capabilities document was fetched from"
//	path = "relative/path/to/app.xml"
//	hash = "sha256:<hash_value>"
//	machine_wide = false
type AppEntry struct {
	Source      string `toml:"source"`
	Path        string `toml:"path"`
	Hash        string `toml:"hash"`
	MachineWide bool   `toml:"machine_wide"`
}

// Lockfile represents the structure of the capctl-lock.toml file.
type Lockfile struct {
	ApiVersion string              `toml:"api_version"`
	Apps       map[string]AppEntry `toml:"apps"`
}

// New creates a new Lockfile instance with default values.
func New() *Lockfile {
	return &Lockfile{
		ApiVersion: APIVersion,
		Apps:       make(map[string]AppEntry),
	}
}

// Load loads the lockfile from the given project root path.
// If the lockfile doesn't exist, it returns a new Lockfile instance.
func Load(projectRoot string) (*Lockfile, error) {
	lockfilePath := filepath.Join(projectRoot, LockfileName)
	lf := New()

	if _, err := os.Stat(lockfilePath); errors.Is(err, os.ErrNotExist) {
		return lf, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat lockfile %s: %w", lockfilePath, err)
	}

	if _, err := toml.DecodeFile(lockfilePath, lf); err != nil {
		return nil, fmt.Errorf("failed to decode lockfile %s: %w", lockfilePath, err)
	}
	if lf.ApiVersion == "" {
		lf.ApiVersion = APIVersion
	}
	if lf.Apps == nil {
		lf.Apps = make(map[string]AppEntry)
	}
	return lf, nil
}

// Save saves the lockfile to the given project root path.
func Save(projectRoot string, lf *Lockfile) error {
	lockfilePath := filepath.Join(projectRoot, LockfileName)
	file, err := os.Create(lockfilePath)
	if err != nil {
		return fmt.Errorf("failed to create/truncate lockfile %s: %w", lockfilePath, err)
	}
	defer func() { _ = file.Close() }()

	if err := toml.NewEncoder(file).Encode(lf); err != nil {
		return fmt.Errorf("failed to encode lockfile %s: %w", lockfilePath, err)
	}
	return nil
}

// AddOrUpdateApp adds or updates an app entry in the lockfile.
func (lf *Lockfile) AddOrUpdateApp(name string, entry AppEntry) {
	if lf.Apps == nil {
		lf.Apps = make(map[string]AppEntry)
	}
	lf.Apps[name] = entry
}

// RemoveApp deletes the entry for name and reports whether it existed.
func (lf *Lockfile) RemoveApp(name string) bool {
	if _, ok := lf.Apps[name]; !ok {
		return false
	}
	delete(lf.Apps, name)
	return true
}

// Names returns the registered app names in sorted order.
func (lf *Lockfile) Names() []string {
	names := make([]string, 0, len(lf.Apps))
	for name := range lf.Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
