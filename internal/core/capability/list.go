package capability

// Namespace is the XML namespace of capability documents.
const Namespace = "http://0install.de/schema/desktop-integration/capabilities"

// List is an ordered group of capabilities that apply to one OS family. It is
// the root of a capabilities document.
type List struct {
	OS      OS
	Entries []Capability
	Unknown Unknown
}

// NewList returns an empty list scoped to os.
func NewList(os OS, entries ...Capability) *List {
	return &List{OS: os, Entries: entries}
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.Entries) }

// Add appends capabilities.
func (l *List) Add(caps ...Capability) {
	l.Entries = append(l.Entries, caps...)
}

// Remove drops the first entry equal to c and reports whether one was found.
func (l *List) Remove(c Capability) bool {
	for i, e := range l.Entries {
		if e.Equal(c) {
			l.Entries = append(l.Entries[:i:i], l.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every entry.
func (l *List) Clear() { l.Entries = nil }

// Find returns the first entry with the given ID. Later duplicates are
// shadowed.
func (l *List) Find(id string) Capability {
	for _, e := range l.Entries {
		if e.CapabilityID() == id {
			return e
		}
	}
	return nil
}

// OfKind returns the entries of kind k in order.
func (l *List) OfKind(k Kind) []Capability {
	var out []Capability
	for _, e := range l.Entries {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

// ConflictIDs returns the conflict IDs of all entries in listing order.
func (l *List) ConflictIDs() []string {
	var ids []string
	for _, e := range l.Entries {
		ids = append(ids, e.ConflictIDs()...)
	}
	return ids
}

// Clone deep-copies the list and every entry, preserving order.
func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	c := &List{OS: l.OS, Unknown: l.Unknown.Clone()}
	if l.Entries != nil {
		c.Entries = make([]Capability, len(l.Entries))
		for i, e := range l.Entries {
			c.Entries[i] = e.Clone()
		}
	}
	return c
}

// Equal compares OS, passthrough data and entries in order.
func (l *List) Equal(other *List) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.OS != other.OS || !l.Unknown.Equal(other.Unknown) || len(l.Entries) != len(other.Entries) {
		return false
	}
	for i := range l.Entries {
		if !l.Entries[i].Equal(other.Entries[i]) {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal.
func (l *List) Hash() uint64 {
	if l == nil {
		return 0
	}
	h := mix(uint64(l.OS), l.Unknown.Hash())
	for _, e := range l.Entries {
		h = mix(h, e.Hash())
	}
	return h
}
