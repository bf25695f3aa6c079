// Package conflict detects capabilities of different applications that claim
// the same system-wide registration.
package conflict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nightconcept/capctl/internal/core/capability"
)

// IDPrefix scopes capability conflict IDs within the wider registration
// namespace shared with other kinds of integration.
const IDPrefix = "capability:"

// App is a named set of capability lists that are registered together.
type App struct {
	Name  string
	Lists []*capability.List
}

// Owner identifies the capability that holds a conflict ID.
type Owner struct {
	App        string
	Capability capability.Capability
}

func (o Owner) String() string {
	return fmt.Sprintf("%s %q of %s", o.Capability.Kind(), o.Capability.CapabilityID(), o.App)
}

// Conflict is a single conflict ID claimed by two owners.
type Conflict struct {
	ID       string
	Existing Owner
	New      Owner
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s collides with %s", c.ID, c.New, c.Existing)
}

// Error reports every conflict found by a check.
type Error struct {
	Conflicts []Conflict
}

func (e *Error) Error() string {
	if len(e.Conflicts) == 1 {
		return "conflict detected: " + e.Conflicts[0].String()
	}
	lines := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		lines[i] = c.String()
	}
	return fmt.Sprintf("%d conflicts detected:\n  %s", len(e.Conflicts), strings.Join(lines, "\n  "))
}

type registration struct {
	id    string
	owner Owner
}

// registrations pairs every prefixed conflict ID with its capability, in
// listing order. Lists not compatible with system are skipped.
func (a App) registrations(system capability.OS) []registration {
	var regs []registration
	for _, l := range a.Lists {
		if l == nil || !l.OS.IsCompatible(system) {
			continue
		}
		for _, c := range l.Entries {
			for _, id := range c.ConflictIDs() {
				regs = append(regs, registration{id: IDPrefix + id, owner: Owner{App: a.Name, Capability: c}})
			}
		}
	}
	return regs
}

// ConflictIDs returns the prefixed conflict IDs of every capability that
// applies on system.
func (a App) ConflictIDs(system capability.OS) []string {
	regs := a.registrations(system)
	ids := make([]string, len(regs))
	for i, r := range regs {
		ids[i] = r.id
	}
	return ids
}

// Index maps conflict IDs to the capabilities currently registered under them.
// It is not safe for concurrent use.
type Index struct {
	system capability.OS
	owners map[string]Owner
}

// NewIndex builds an index of apps as registered on system.
func NewIndex(system capability.OS, apps ...App) *Index {
	idx := &Index{system: system, owners: make(map[string]Owner)}
	for _, app := range apps {
		idx.Add(app)
	}
	return idx
}

// Add records the registrations of app. IDs that are already owned keep their
// first owner.
func (idx *Index) Add(app App) {
	for _, r := range app.registrations(idx.system) {
		if _, exists := idx.owners[r.id]; !exists {
			idx.owners[r.id] = r.owner
		}
	}
}

// Remove drops every registration owned by the app called name.
func (idx *Index) Remove(name string) {
	for id, owner := range idx.owners {
		if owner.App == name {
			delete(idx.owners, id)
		}
	}
}

// Owner returns the owner of a prefixed conflict ID.
func (idx *Index) Owner(id string) (Owner, bool) {
	o, ok := idx.owners[id]
	return o, ok
}

// Len returns the number of indexed conflict IDs.
func (idx *Index) Len() int { return len(idx.owners) }

// Check reports whether app can be registered next to the indexed apps. It
// returns an *Error listing every collision. Applying a capability that the
// same app already owns again is not a conflict.
func (idx *Index) Check(app App) error {
	var conflicts []Conflict
	for _, r := range app.registrations(idx.system) {
		existing, ok := idx.owners[r.id]
		if !ok {
			continue
		}
		if existing.App == app.Name && existing.Capability.Equal(r.owner.Capability) {
			continue
		}
		conflicts = append(conflicts, Conflict{ID: r.id, Existing: existing, New: r.owner})
	}
	if len(conflicts) > 0 {
		return &Error{Conflicts: conflicts}
	}
	return nil
}

// Detect reports every conflict ID claimed by more than one app in apps. Earlier
// apps are treated as the existing owners. The result is sorted by ID.
func Detect(system capability.OS, apps ...App) []Conflict {
	owners := make(map[string]Owner)
	var conflicts []Conflict
	for _, app := range apps {
		claimed := make(map[string]Owner)
		for _, r := range app.registrations(system) {
			if existing, ok := owners[r.id]; ok && existing.App != r.owner.App {
				conflicts = append(conflicts, Conflict{ID: r.id, Existing: existing, New: r.owner})
				continue
			}
			if _, ok := claimed[r.id]; !ok {
				claimed[r.id] = r.owner
			}
		}
		for id, owner := range claimed {
			if _, ok := owners[id]; !ok {
				owners[id] = owner
			}
		}
	}
	sortConflicts(conflicts)
	return conflicts
}

// InnerConflicts reports distinct capabilities of a single app that share a
// conflict ID on system, such as a file type and a URL protocol with the same
// programmatic identifier.
func InnerConflicts(system capability.OS, app App) []Conflict {
	seen := make(map[string]Owner)
	var conflicts []Conflict
	for _, r := range app.registrations(system) {
		existing, ok := seen[r.id]
		if !ok {
			seen[r.id] = r.owner
			continue
		}
		if existing.Capability == r.owner.Capability {
			continue
		}
		conflicts = append(conflicts, Conflict{ID: r.id, Existing: existing, New: r.owner})
	}
	sortConflicts(conflicts)
	return conflicts
}

func sortConflicts(conflicts []Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].ID < conflicts[j].ID
	})
}
