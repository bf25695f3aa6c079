package capability

import (
	"fmt"
	"strings"
)

// Icon is an image an application can be represented with.
type Icon struct {
	Href     string
	MimeType string
	Unknown  Unknown
}

func (i Icon) clone() Icon {
	c := i
	c.Unknown = i.Unknown.Clone()
	return c
}

// Equal compares all fields.
func (i Icon) Equal(other Icon) bool {
	return i.Href == other.Href && i.MimeType == other.MimeType && i.Unknown.Equal(other.Unknown)
}

func (i Icon) hash() uint64 {
	h := hashString(i.Href)
	h = mix(h, hashString(i.MimeType))
	return mix(h, i.Unknown.Hash())
}

// IconFields is embedded by capabilities that carry icons and descriptions.
type IconFields struct {
	Icons        []Icon
	Descriptions LocalizableStrings
}

// GetIcon returns the first icon whose MIME type matches mimeType
// (ignoring case) and that has a location, or nil if there is none.
func (f *IconFields) GetIcon(mimeType string) (*Icon, error) {
	if mimeType == "" {
		return nil, fmt.Errorf("%w: MIME type must not be empty", ErrInvalidArgument)
	}
	for i := range f.Icons {
		if f.Icons[i].Href != "" && strings.EqualFold(f.Icons[i].MimeType, mimeType) {
			return &f.Icons[i], nil
		}
	}
	return nil, nil
}

// AddIcon appends an icon.
func (f *IconFields) AddIcon(icon Icon) { f.Icons = append(f.Icons, icon) }

// RemoveIcon drops the icon at index i.
func (f *IconFields) RemoveIcon(i int) {
	f.Icons = append(f.Icons[:i:i], f.Icons[i+1:]...)
}

// ClearIcons removes all icons.
func (f *IconFields) ClearIcons() { f.Icons = nil }

func (f IconFields) clone() IconFields {
	var c IconFields
	if f.Icons != nil {
		c.Icons = make([]Icon, len(f.Icons))
		for i, icon := range f.Icons {
			c.Icons[i] = icon.clone()
		}
	}
	c.Descriptions = f.Descriptions.Clone()
	return c
}

func (f IconFields) equal(other IconFields) bool {
	if len(f.Icons) != len(other.Icons) {
		return false
	}
	for i := range f.Icons {
		if !f.Icons[i].Equal(other.Icons[i]) {
			return false
		}
	}
	return f.Descriptions.Equal(other.Descriptions)
}

func (f IconFields) hash() uint64 {
	var h uint64
	for _, icon := range f.Icons {
		h = mix(h, icon.hash())
	}
	return mix(h, f.Descriptions.Hash())
}
