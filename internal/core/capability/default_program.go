package capability

// Service names a category in the Windows "Set Program Access and Defaults" dialog.
const (
	ServiceWebBrowser   = "StartMenuInternet"
	ServiceMail         = "Mail"
	ServiceMedia        = "Media"
	ServiceMessenger    = "IM"
	ServiceJavaVM       = "JVM"
	ServiceCalender     = "Calender"
	ServiceContacts     = "Contacts"
	ServiceInternetCall = "Internet Call"
)

// CanonicalServices lists the well-known default program services.
var CanonicalServices = []string{
	ServiceWebBrowser, ServiceMail, ServiceMedia, ServiceMessenger,
	ServiceJavaVM, ServiceCalender, ServiceContacts, ServiceInternetCall,
}

// InstallCommands are shown by the "Set Program Access and Defaults" dialog.
// They are never executed; the launcher substitutes its own commands when
// registering.
type InstallCommands struct {
	Reinstall     string
	ReinstallArgs string
	ShowIcons     string
	ShowIconsArgs string
	HideIcons     string
	HideIconsArgs string
	Unknown       Unknown
}

// IsEmpty reports whether no command is set.
func (ic InstallCommands) IsEmpty() bool {
	return ic.Reinstall == "" && ic.ReinstallArgs == "" &&
		ic.ShowIcons == "" && ic.ShowIconsArgs == "" &&
		ic.HideIcons == "" && ic.HideIconsArgs == "" &&
		ic.Unknown.IsEmpty()
}

func (ic InstallCommands) clone() InstallCommands {
	c := ic
	c.Unknown = ic.Unknown.Clone()
	return c
}

// Equal compares all fields.
func (ic InstallCommands) Equal(other InstallCommands) bool {
	return ic.Reinstall == other.Reinstall && ic.ReinstallArgs == other.ReinstallArgs &&
		ic.ShowIcons == other.ShowIcons && ic.ShowIconsArgs == other.ShowIconsArgs &&
		ic.HideIcons == other.HideIcons && ic.HideIconsArgs == other.HideIconsArgs &&
		ic.Unknown.Equal(other.Unknown)
}

func (ic InstallCommands) hash() uint64 {
	h := hashString(ic.Reinstall)
	for _, s := range []string{ic.ReinstallArgs, ic.ShowIcons, ic.ShowIconsArgs, ic.HideIcons, ic.HideIconsArgs} {
		h = mix(h, hashString(s))
	}
	return mix(h, ic.Unknown.Hash())
}

// DefaultProgram registers the application as a candidate for a Windows
// default program service such as the web browser or mail client.
type DefaultProgram struct {
	Base
	DefaultFields
	VerbFields
	Service         string
	InstallCommands InstallCommands
}

func (c *DefaultProgram) Kind() Kind { return KindDefaultProgram }

func (c *DefaultProgram) MachineWideOnly(Target) bool { return true }

func (c *DefaultProgram) ConflictIDs() []string {
	return []string{"clients:" + c.Service + `\` + c.ID}
}

func (c *DefaultProgram) Clone() Capability {
	return &DefaultProgram{
		Base:            cloneBase(c.Base),
		DefaultFields:   c.DefaultFields,
		VerbFields:      c.VerbFields.clone(),
		Service:         c.Service,
		InstallCommands: c.InstallCommands.clone(),
	}
}

func (c *DefaultProgram) Equal(other Capability) bool {
	o, ok := other.(*DefaultProgram)
	if !ok || o == nil {
		return false
	}
	return equalBase(c.Base, o.Base) &&
		c.DefaultFields == o.DefaultFields &&
		c.VerbFields.equal(o.VerbFields) &&
		c.Service == o.Service &&
		c.InstallCommands.Equal(o.InstallCommands)
}

func (c *DefaultProgram) Hash() uint64 {
	h := hashBase(c.Base)
	h = mix(h, hashBool(c.ExplicitOnly))
	h = mix(h, c.VerbFields.hash())
	h = mix(h, hashString(c.Service))
	return mix(h, c.InstallCommands.hash())
}
