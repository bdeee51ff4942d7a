package server

import "github.com/ewc-project/ewc/internal/proto"

// Global is one entry in the server-wide global catalogue advertised via
// wl_registry.global (spec.md §4.4 "GlobalRegistry").
type Global struct {
	Name      uint32
	Interface *proto.Interface
	Version   uint32
	Bind      func(c *Client, id uint32, version uint32) error
}

// GlobalRegistry is the catalogue of globals every client's wl_registry
// advertises at bind time, keyed by the stable "name" sent in the
// global event.
type GlobalRegistry struct {
	globals    []*Global
	nextName   uint32
}

func NewGlobalRegistry() *GlobalRegistry {
	return &GlobalRegistry{nextName: 1}
}

// Add registers a new global and returns it with a freshly assigned name.
func (r *GlobalRegistry) Add(iface *proto.Interface, version uint32, bind func(c *Client, id uint32, version uint32) error) *Global {
	g := &Global{Name: r.nextName, Interface: iface, Version: version, Bind: bind}
	r.nextName++
	r.globals = append(r.globals, g)
	return g
}

func (r *GlobalRegistry) All() []*Global { return r.globals }

func (r *GlobalRegistry) ByName(name uint32) (*Global, bool) {
	for _, g := range r.globals {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}
