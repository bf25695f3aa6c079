package capability

// Canonical verb names. The shell translates these itself; any other name
// needs its own descriptions.
const (
	VerbOpen    = "open"
	VerbOpenNew = "opennew"
	VerbOpenAs  = "openas"
	VerbEdit    = "edit"
	VerbPlay    = "play"
	VerbPrint   = "print"
	VerbPreview = "preview"
)

// CanonicalVerbs lists the verb names with built-in translations.
var CanonicalVerbs = []string{VerbOpen, VerbOpenNew, VerbOpenAs, VerbEdit, VerbPlay, VerbPrint, VerbPreview}

// DefaultCommand is launched by a verb that names no command.
const DefaultCommand = "run"

// IsCanonicalVerb reports whether name is one of CanonicalVerbs.
func IsCanonicalVerb(name string) bool {
	for _, v := range CanonicalVerbs {
		if v == name {
			return true
		}
	}
	return false
}

// Verb is an action the shell offers for a file, URL or device, mapped to a
// command of the application.
type Verb struct {
	Name    string
	Command string
	// Arguments is passed to the command; %1 is replaced with the path or URL
	// by the launcher.
	Arguments string
	// Extended hides the verb from the context menu unless Shift is held.
	Extended     bool
	Descriptions LocalizableStrings
	Unknown      Unknown
}

// CommandOrDefault returns Command, or DefaultCommand if it is empty.
func (v *Verb) CommandOrDefault() string {
	if v.Command == "" {
		return DefaultCommand
	}
	return v.Command
}

// NeedsDescriptions reports whether the verb has a non-canonical name but no
// description to show instead.
func (v *Verb) NeedsDescriptions() bool {
	return v != nil && !IsCanonicalVerb(v.Name) && v.Descriptions.Len() == 0
}

// Clone returns an independent copy.
func (v *Verb) Clone() *Verb {
	if v == nil {
		return nil
	}
	c := *v
	c.Descriptions = v.Descriptions.Clone()
	c.Unknown = v.Unknown.Clone()
	return &c
}

// Equal compares all fields. Two nil verbs are equal.
func (v *Verb) Equal(other *Verb) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Name == other.Name &&
		v.Command == other.Command &&
		v.Arguments == other.Arguments &&
		v.Extended == other.Extended &&
		v.Descriptions.Equal(other.Descriptions) &&
		v.Unknown.Equal(other.Unknown)
}

// Hash is consistent with Equal.
func (v *Verb) Hash() uint64 {
	if v == nil {
		return 0
	}
	h := hashString(v.Name)
	h = mix(h, hashString(v.Command))
	h = mix(h, hashString(v.Arguments))
	h = mix(h, hashBool(v.Extended))
	h = mix(h, v.Descriptions.Hash())
	return mix(h, v.Unknown.Hash())
}

// VerbFields is embedded by capabilities that expose verbs. Verb order is
// significant.
type VerbFields struct {
	IconFields
	Verbs []*Verb
}

// AddVerb appends a verb.
func (f *VerbFields) AddVerb(v *Verb) { f.Verbs = append(f.Verbs, v) }

// RemoveVerb drops the first verb with the given name and reports whether
// one was found.
func (f *VerbFields) RemoveVerb(name string) bool {
	for i, v := range f.Verbs {
		if v != nil && v.Name == name {
			f.Verbs = append(f.Verbs[:i:i], f.Verbs[i+1:]...)
			return true
		}
	}
	return false
}

// ClearVerbs removes all verbs.
func (f *VerbFields) ClearVerbs() { f.Verbs = nil }

// FindVerb returns the first verb with the given name.
func (f *VerbFields) FindVerb(name string) *Verb {
	for _, v := range f.Verbs {
		if v != nil && v.Name == name {
			return v
		}
	}
	return nil
}

func (f VerbFields) clone() VerbFields {
	c := VerbFields{IconFields: f.IconFields.clone()}
	if f.Verbs != nil {
		c.Verbs = make([]*Verb, len(f.Verbs))
		for i, v := range f.Verbs {
			c.Verbs[i] = v.Clone()
		}
	}
	return c
}

func (f VerbFields) equal(other VerbFields) bool {
	if !f.IconFields.equal(other.IconFields) || len(f.Verbs) != len(other.Verbs) {
		return false
	}
	for i := range f.Verbs {
		if !f.Verbs[i].Equal(other.Verbs[i]) {
			return false
		}
	}
	return true
}

func (f VerbFields) hash() uint64 {
	h := f.IconFields.hash()
	for _, v := range f.Verbs {
		h = mix(h, v.Hash())
	}
	return h
}
