package capability

// AutoPlay event names raised by Windows when media is inserted.
const (
	EventPlayCDAudio           = "PlayCDAudioOnArrival"
	EventPlayDVDAudio          = "PlayDVDAudioOnArrival"
	EventPlayMusicFiles        = "PlayMusicFilesOnArrival"
	EventPlayVideoCDMovie      = "PlayVideoCDMovieOnArrival"
	EventPlaySuperVideoCDMovie = "PlaySuperVideoCDMovieOnArrival"
	EventPlayDVDMovie          = "PlayDVDMovieOnArrival"
	EventPlayVideoFiles        = "PlayVideoFilesOnArrival"
	EventHandleCDBurning       = "HandleCDBurningOnArrival"
	EventHandleDVDBurning      = "HandleDVDBurningOnArrival"
	EventHandleBDBurning       = "HandleBDBurningOnArrival"
)

// CanonicalEvents lists the well-known AutoPlay event names.
var CanonicalEvents = []string{
	EventPlayCDAudio, EventPlayDVDAudio, EventPlayMusicFiles, EventPlayVideoCDMovie,
	EventPlaySuperVideoCDMovie, EventPlayDVDMovie, EventPlayVideoFiles,
	EventHandleCDBurning, EventHandleDVDBurning, EventHandleBDBurning,
}

// AutoPlayEvent names a media event an AutoPlay handler reacts to.
type AutoPlayEvent struct {
	Name    string
	Unknown Unknown
}

// Equal compares all fields.
func (e AutoPlayEvent) Equal(other AutoPlayEvent) bool {
	return e.Name == other.Name && e.Unknown.Equal(other.Unknown)
}

func (e AutoPlayEvent) hash() uint64 {
	return mix(hashString(e.Name), e.Unknown.Hash())
}

// AutoPlay is a handler offered in the AutoPlay picker when media is
// inserted. Events form an unordered set.
type AutoPlay struct {
	Base
	DefaultFields
	IconFields
	// Provider is the name shown in the picker.
	Provider string
	Verb     *Verb
	Events   []AutoPlayEvent
}

func (c *AutoPlay) Kind() Kind { return KindAutoPlay }

func (c *AutoPlay) MachineWideOnly(Target) bool { return false }

func (c *AutoPlay) ConflictIDs() []string {
	return []string{"autoplay:" + c.ID}
}

// AddEvent appends an event.
func (c *AutoPlay) AddEvent(name string) {
	c.Events = append(c.Events, AutoPlayEvent{Name: name})
}

// RemoveEvent drops every event with the given name.
func (c *AutoPlay) RemoveEvent(name string) {
	var kept []AutoPlayEvent
	for _, e := range c.Events {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	c.Events = kept
}

func (c *AutoPlay) Clone() Capability {
	clone := &AutoPlay{
		Base:          cloneBase(c.Base),
		DefaultFields: c.DefaultFields,
		IconFields:    c.IconFields.clone(),
		Provider:      c.Provider,
		Verb:          c.Verb.Clone(),
	}
	if c.Events != nil {
		clone.Events = make([]AutoPlayEvent, len(c.Events))
		for i, e := range c.Events {
			clone.Events[i] = AutoPlayEvent{Name: e.Name, Unknown: e.Unknown.Clone()}
		}
	}
	return clone
}

func (c *AutoPlay) Equal(other Capability) bool {
	o, ok := other.(*AutoPlay)
	if !ok || o == nil {
		return false
	}
	return equalBase(c.Base, o.Base) &&
		c.DefaultFields == o.DefaultFields &&
		c.IconFields.equal(o.IconFields) &&
		c.Provider == o.Provider &&
		c.Verb.Equal(o.Verb) &&
		unorderedEqual(c.Events, o.Events, AutoPlayEvent.Equal)
}

func (c *AutoPlay) Hash() uint64 {
	h := hashBase(c.Base)
	h = mix(h, hashBool(c.ExplicitOnly))
	h = mix(h, c.IconFields.hash())
	h = mix(h, hashString(c.Provider))
	h = mix(h, c.Verb.Hash())
	return mix(h, unorderedHash(c.Events, AutoPlayEvent.hash))
}

// unorderedEqual reports whether a and b hold the same elements with the
// same multiplicities, regardless of position.
func unorderedEqual[T any](a, b []T, eq func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && eq(x, y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func unorderedHash[T any](items []T, hash func(T) uint64) uint64 {
	var h uint64
	for _, item := range items {
		h += hash(item)
	}
	return h
}
