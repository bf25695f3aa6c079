// Package capability models the ways an application can integrate with a
// desktop shell (file types, URL protocols, AutoPlay handlers, context menus
// and similar), grouped into OS-scoped lists.
//
// Every capability derives a set of conflict IDs from a namespace shared by all
// applications on a system. Two capabilities whose conflict IDs overlap cannot
// be registered at the same time. Conflict IDs are computed on demand and must
// never be persisted.
//
// Values are plain, unsynchronized data. Clone before handing a committed
// value to an editor.
package capability

import (
	"errors"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrInvalidArgument is returned for malformed method inputs.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidDocument is returned when a document is not a capability list.
	ErrInvalidDocument = errors.New("invalid capabilities document")
)

// Kind identifies a concrete capability type. Its value is the XML element
// name the capability is stored under.
type Kind string

const (
	KindAppRegistration Kind = "registration"
	KindAutoPlay        Kind = "auto-play"
	KindComServer       Kind = "com-server"
	KindContextMenu     Kind = "context-menu"
	KindDefaultProgram  Kind = "default-program"
	KindFileType        Kind = "file-type"
	KindUrlProtocol     Kind = "url-protocol"
)

// Kinds lists every concrete capability kind.
var Kinds = []Kind{
	KindAppRegistration, KindAutoPlay, KindComServer, KindContextMenu,
	KindDefaultProgram, KindFileType, KindUrlProtocol,
}

// windows8 is the NT kernel version of Windows 8.
var windows8 = semver.MustParse("6.2")

// Target describes the system capabilities are registered on.
type Target struct {
	OS OS
	// Version is the OS kernel version, e.g. 6.2 for Windows 8. Nil if unknown.
	Version *semver.Version
}

// IsWindows8OrNewer reports whether the target runs Windows 8 or later.
func (t Target) IsWindows8OrNewer() bool {
	return t.OS == OSWindows && t.Version != nil && !t.Version.LessThan(windows8)
}

// Capability is implemented by the pointer types of this package only:
// *AppRegistration, *AutoPlay, *ComServer, *ContextMenu, *DefaultProgram,
// *FileType and *UrlProtocol.
type Capability interface {
	Kind() Kind
	CapabilityID() string
	// ConflictIDs returns identifiers in the system-wide registration
	// namespace. The result is freshly computed on every call.
	ConflictIDs() []string
	// MachineWideOnly reports whether the capability can only be registered
	// for all users on target.
	MachineWideOnly(target Target) bool
	Clone() Capability
	Equal(other Capability) bool
	Hash() uint64

	common() *Base
}

// Base holds the fields shared by every capability.
type Base struct {
	// ID is unique within one List. It may be empty while a document is
	// still being authored.
	ID      string
	Unknown Unknown
}

// CapabilityID returns ID.
func (b *Base) CapabilityID() string { return b.ID }

func (b *Base) common() *Base { return b }

func cloneBase(b Base) Base {
	return Base{ID: b.ID, Unknown: b.Unknown.Clone()}
}

func equalBase(a, b Base) bool {
	return a.ID == b.ID && a.Unknown.Equal(b.Unknown)
}

func hashBase(b Base) uint64 {
	return mix(hashString(b.ID), b.Unknown.Hash())
}

// DefaultFields is embedded by capabilities that can be applied as a default
// handler in bulk.
type DefaultFields struct {
	// ExplicitOnly excludes exotic capabilities from default integration; they
	// are only applied when the user asks for them.
	ExplicitOnly bool
}

// UnknownOf returns the passthrough data of c.
func UnknownOf(c Capability) *Unknown { return &c.common().Unknown }

// IsExplicitOnly reports whether c opts out of default integration.
// Capabilities without the flag never opt out.
func IsExplicitOnly(c Capability) bool {
	switch v := c.(type) {
	case *AutoPlay:
		return v.ExplicitOnly
	case *ContextMenu:
		return v.ExplicitOnly
	case *DefaultProgram:
		return v.ExplicitOnly
	case *FileType:
		return v.ExplicitOnly
	case *UrlProtocol:
		return v.ExplicitOnly
	}
	return false
}

// IconsOf returns the icon fields of c, or nil for kinds without icons.
func IconsOf(c Capability) *IconFields {
	switch v := c.(type) {
	case *AutoPlay:
		return &v.IconFields
	case *ContextMenu:
		return &v.IconFields
	case *DefaultProgram:
		return &v.IconFields
	case *FileType:
		return &v.IconFields
	case *UrlProtocol:
		return &v.IconFields
	}
	return nil
}

// VerbsOf returns the verbs of c in order. AutoPlay contributes its single
// verb if set.
func VerbsOf(c Capability) []*Verb {
	switch v := c.(type) {
	case *AutoPlay:
		if v.Verb != nil {
			return []*Verb{v.Verb}
		}
	case *ContextMenu:
		return v.Verbs
	case *DefaultProgram:
		return v.Verbs
	case *FileType:
		return v.Verbs
	case *UrlProtocol:
		return v.Verbs
	}
	return nil
}
