package capability

// KnownProtocolPrefix is a URL scheme such as "http" that many applications
// can handle.
type KnownProtocolPrefix struct {
	Value   string
	Unknown Unknown
}

// Equal compares all fields.
func (p KnownProtocolPrefix) Equal(other KnownProtocolPrefix) bool {
	return p.Value == other.Value && p.Unknown.Equal(other.Unknown)
}

// UrlProtocol handles a URL scheme. Application-specific schemes use ID and
// leave KnownPrefixes empty; shared schemes are listed in KnownPrefixes, in
// order.
type UrlProtocol struct {
	Base
	DefaultFields
	VerbFields
	KnownPrefixes []KnownProtocolPrefix
}

func (c *UrlProtocol) Kind() Kind { return KindUrlProtocol }

func (c *UrlProtocol) MachineWideOnly(Target) bool { return false }

// ConflictIDs shares the progid namespace with FileType.
func (c *UrlProtocol) ConflictIDs() []string {
	return []string{"progid:" + c.ID}
}

// AddKnownPrefix appends a prefix.
func (c *UrlProtocol) AddKnownPrefix(value string) {
	c.KnownPrefixes = append(c.KnownPrefixes, KnownProtocolPrefix{Value: value})
}

func (c *UrlProtocol) Clone() Capability {
	clone := &UrlProtocol{
		Base:          cloneBase(c.Base),
		DefaultFields: c.DefaultFields,
		VerbFields:    c.VerbFields.clone(),
	}
	if c.KnownPrefixes != nil {
		clone.KnownPrefixes = make([]KnownProtocolPrefix, len(c.KnownPrefixes))
		for i, p := range c.KnownPrefixes {
			clone.KnownPrefixes[i] = KnownProtocolPrefix{Value: p.Value, Unknown: p.Unknown.Clone()}
		}
	}
	return clone
}

func (c *UrlProtocol) Equal(other Capability) bool {
	o, ok := other.(*UrlProtocol)
	if !ok || o == nil {
		return false
	}
	if !equalBase(c.Base, o.Base) ||
		c.DefaultFields != o.DefaultFields ||
		!c.VerbFields.equal(o.VerbFields) ||
		len(c.KnownPrefixes) != len(o.KnownPrefixes) {
		return false
	}
	for i := range c.KnownPrefixes {
		if !c.KnownPrefixes[i].Equal(o.KnownPrefixes[i]) {
			return false
		}
	}
	return true
}

func (c *UrlProtocol) Hash() uint64 {
	h := hashBase(c.Base)
	h = mix(h, hashBool(c.ExplicitOnly))
	h = mix(h, c.VerbFields.hash())
	for _, p := range c.KnownPrefixes {
		h = mix(h, mix(hashString(p.Value), p.Unknown.Hash()))
	}
	return h
}
