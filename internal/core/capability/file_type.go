package capability

import "strings"

// Perceived types group file extensions into broad categories.
const (
	PerceivedFolder      = "folder"
	PerceivedText        = "text"
	PerceivedImage       = "image"
	PerceivedAudio       = "audio"
	PerceivedVideo       = "video"
	PerceivedCompressed  = "compressed"
	PerceivedDocument    = "document"
	PerceivedSystem      = "system"
	PerceivedApplication = "application"
	PerceivedGameMedia   = "gamemedia"
	PerceivedContacts    = "contacts"
)

// CanonicalPerceivedTypes lists the well-known perceived types.
var CanonicalPerceivedTypes = []string{
	PerceivedFolder, PerceivedText, PerceivedImage, PerceivedAudio, PerceivedVideo,
	PerceivedCompressed, PerceivedDocument, PerceivedSystem, PerceivedApplication,
	PerceivedGameMedia, PerceivedContacts,
}

// FileTypeExtension is a file name extension claimed by a FileType.
type FileTypeExtension struct {
	// Value includes the leading dot, e.g. ".png".
	Value         string
	MimeType      string
	PerceivedType string
	Unknown       Unknown
}

// Equal compares all fields.
func (e FileTypeExtension) Equal(other FileTypeExtension) bool {
	return e.Value == other.Value && e.MimeType == other.MimeType &&
		e.PerceivedType == other.PerceivedType && e.Unknown.Equal(other.Unknown)
}

func (e FileTypeExtension) hash() uint64 {
	h := hashString(e.Value)
	h = mix(h, hashString(e.MimeType))
	h = mix(h, hashString(e.PerceivedType))
	return mix(h, e.Unknown.Hash())
}

// FileType associates file extensions with the application. ID is the
// programmatic identifier. Extensions form an unordered set.
type FileType struct {
	Base
	DefaultFields
	VerbFields
	Extensions []FileTypeExtension
}

func (c *FileType) Kind() Kind { return KindFileType }

func (c *FileType) MachineWideOnly(Target) bool { return false }

// ConflictIDs shares the progid namespace with UrlProtocol.
func (c *FileType) ConflictIDs() []string {
	return []string{"progid:" + c.ID}
}

// AddExtension appends an extension.
func (c *FileType) AddExtension(ext FileTypeExtension) {
	c.Extensions = append(c.Extensions, ext)
}

// RemoveExtension drops every extension matching value, ignoring case.
func (c *FileType) RemoveExtension(value string) {
	var kept []FileTypeExtension
	for _, e := range c.Extensions {
		if !strings.EqualFold(e.Value, value) {
			kept = append(kept, e)
		}
	}
	c.Extensions = kept
}

func (c *FileType) Clone() Capability {
	clone := &FileType{
		Base:          cloneBase(c.Base),
		DefaultFields: c.DefaultFields,
		VerbFields:    c.VerbFields.clone(),
	}
	if c.Extensions != nil {
		clone.Extensions = make([]FileTypeExtension, len(c.Extensions))
		for i, e := range c.Extensions {
			e.Unknown = e.Unknown.Clone()
			clone.Extensions[i] = e
		}
	}
	return clone
}

func (c *FileType) Equal(other Capability) bool {
	o, ok := other.(*FileType)
	if !ok || o == nil {
		return false
	}
	return equalBase(c.Base, o.Base) &&
		c.DefaultFields == o.DefaultFields &&
		c.VerbFields.equal(o.VerbFields) &&
		unorderedEqual(c.Extensions, o.Extensions, FileTypeExtension.Equal)
}

func (c *FileType) Hash() uint64 {
	h := hashBase(c.Base)
	h = mix(h, hashBool(c.ExplicitOnly))
	h = mix(h, c.VerbFields.hash())
	return mix(h, unorderedHash(c.Extensions, FileTypeExtension.hash))
}
