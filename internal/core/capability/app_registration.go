package capability

// AppRegistration registers the application with the Windows "Default
// Programs" control panel. It ties together the other capabilities of its list.
type AppRegistration struct {
	Base
	// CapabilityRegPath is the registry path, relative to HKLM, where the
	// capabilities are described.
	CapabilityRegPath string
}

func (c *AppRegistration) Kind() Kind { return KindAppRegistration }

// MachineWideOnly is true unless the target is Windows 8 or newer, where the
// registration may also live in the per-user hive.
func (c *AppRegistration) MachineWideOnly(target Target) bool {
	return !target.IsWindows8OrNewer()
}

func (c *AppRegistration) ConflictIDs() []string {
	return []string{"registered-apps:" + c.ID, "hklm:" + c.CapabilityRegPath}
}

func (c *AppRegistration) Clone() Capability {
	return &AppRegistration{Base: cloneBase(c.Base), CapabilityRegPath: c.CapabilityRegPath}
}

func (c *AppRegistration) Equal(other Capability) bool {
	o, ok := other.(*AppRegistration)
	if !ok || o == nil {
		return false
	}
	return equalBase(c.Base, o.Base) && c.CapabilityRegPath == o.CapabilityRegPath
}

func (c *AppRegistration) Hash() uint64 {
	return mix(hashBase(c.Base), hashString(c.CapabilityRegPath))
}
