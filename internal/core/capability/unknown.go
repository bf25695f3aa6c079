package capability

import (
	"encoding/xml"
	"hash/fnv"
)

// RawElement is a child element this model does not understand, kept verbatim
// so it can be written back unchanged.
type RawElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	InnerXML string     `xml:",innerxml"`
}

// Unknown holds attributes and child elements that were present in a document
// but are not part of the schema this package knows about.
type Unknown struct {
	Attrs    []xml.Attr
	Elements []RawElement
}

// IsEmpty reports whether nothing was preserved.
func (u Unknown) IsEmpty() bool {
	return len(u.Attrs) == 0 && len(u.Elements) == 0
}

// Clone returns a copy that shares no slices with u.
func (u Unknown) Clone() Unknown {
	var c Unknown
	if u.Attrs != nil {
		c.Attrs = append([]xml.Attr(nil), u.Attrs...)
	}
	if u.Elements != nil {
		c.Elements = make([]RawElement, len(u.Elements))
		for i, e := range u.Elements {
			c.Elements[i] = e.clone()
		}
	}
	return c
}

// Equal compares both bags in order.
func (u Unknown) Equal(other Unknown) bool {
	if !attrsEqual(u.Attrs, other.Attrs) {
		return false
	}
	if len(u.Elements) != len(other.Elements) {
		return false
	}
	for i := range u.Elements {
		if !u.Elements[i].equal(other.Elements[i]) {
			return false
		}
	}
	return true
}

// Hash combines the bag contents in order.
func (u Unknown) Hash() uint64 {
	var h uint64
	for _, a := range u.Attrs {
		h = mix(h, attrHash(a))
	}
	for _, e := range u.Elements {
		h = mix(h, e.hash())
	}
	return h
}

func (e RawElement) clone() RawElement {
	c := e
	if e.Attrs != nil {
		c.Attrs = append([]xml.Attr(nil), e.Attrs...)
	}
	return c
}

func (e RawElement) equal(other RawElement) bool {
	return e.XMLName == other.XMLName &&
		attrsEqual(e.Attrs, other.Attrs) &&
		e.InnerXML == other.InnerXML
}

func (e RawElement) hash() uint64 {
	h := hashString(e.XMLName.Space)
	h = mix(h, hashString(e.XMLName.Local))
	for _, a := range e.Attrs {
		h = mix(h, attrHash(a))
	}
	return mix(h, hashString(e.InnerXML))
}

func attrsEqual(a, b []xml.Attr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func attrHash(a xml.Attr) uint64 {
	h := hashString(a.Name.Space)
	h = mix(h, hashString(a.Name.Local))
	return mix(h, hashString(a.Value))
}

// mix folds v into h the same way for every type in this package.
func mix(h, v uint64) uint64 {
	return h*397 ^ v
}

func hashString(s string) uint64 {
	if s == "" {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func hashBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
