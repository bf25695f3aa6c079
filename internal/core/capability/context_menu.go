package capability

// ContextMenuTarget selects which shell objects a context menu entry is added to.
type ContextMenuTarget string

const (
	// TargetFiles is the default and is not written to documents.
	TargetFiles           ContextMenuTarget = "Files"
	TargetExecutableFiles ContextMenuTarget = "ExecutableFiles"
	TargetDirectories     ContextMenuTarget = "Directories"
	TargetAll             ContextMenuTarget = "All"
)

// ContextMenu adds entries to the shell's context menu.
type ContextMenu struct {
	Base
	DefaultFields
	VerbFields
	// Target defaults to TargetFiles when empty.
	Target ContextMenuTarget
}

func (c *ContextMenu) Kind() Kind { return KindContextMenu }

func (c *ContextMenu) MachineWideOnly(Target) bool { return false }

// ConflictIDs is always empty. Context menu entries are keyed by the access
// point that applies them, not by the capability itself.
func (c *ContextMenu) ConflictIDs() []string { return []string{} }

// EffectiveTarget returns Target, or TargetFiles if unset.
func (c *ContextMenu) EffectiveTarget() ContextMenuTarget {
	if c.Target == "" {
		return TargetFiles
	}
	return c.Target
}

func (c *ContextMenu) Clone() Capability {
	return &ContextMenu{
		Base:          cloneBase(c.Base),
		DefaultFields: c.DefaultFields,
		VerbFields:    c.VerbFields.clone(),
		Target:        c.Target,
	}
}

func (c *ContextMenu) Equal(other Capability) bool {
	o, ok := other.(*ContextMenu)
	if !ok || o == nil {
		return false
	}
	return equalBase(c.Base, o.Base) &&
		c.DefaultFields == o.DefaultFields &&
		c.VerbFields.equal(o.VerbFields) &&
		c.EffectiveTarget() == o.EffectiveTarget()
}

func (c *ContextMenu) Hash() uint64 {
	h := hashBase(c.Base)
	h = mix(h, hashBool(c.ExplicitOnly))
	h = mix(h, c.VerbFields.hash())
	return mix(h, hashString(string(c.EffectiveTarget())))
}
