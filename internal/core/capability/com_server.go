package capability

// ComServer exposes the application as a COM server. ID is the class ID.
type ComServer struct {
	Base
}

func (c *ComServer) Kind() Kind { return KindComServer }

func (c *ComServer) MachineWideOnly(Target) bool { return false }

func (c *ComServer) ConflictIDs() []string {
	return []string{"classes:" + c.ID}
}

func (c *ComServer) Clone() Capability {
	return &ComServer{Base: cloneBase(c.Base)}
}

func (c *ComServer) Equal(other Capability) bool {
	o, ok := other.(*ComServer)
	if !ok || o == nil {
		return false
	}
	return equalBase(c.Base, o.Base)
}

func (c *ComServer) Hash() uint64 { return hashBase(c.Base) }
