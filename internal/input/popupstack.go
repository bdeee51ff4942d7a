package input

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/shell"
	"github.com/ewc-project/ewc/internal/wire"
)

// PopupStack is the ordered list of live mapped popups; only the top may
// be destroyed (spec.md §3 "PopupStack"). Implements shell.PopupHooks.
type PopupStack struct {
	stack []*shell.XdgPopupRole
}

func NewPopupStack() *PopupStack { return &PopupStack{} }

func (p *PopupStack) Push(pop *shell.XdgPopupRole) {
	p.stack = append(p.stack, pop)
}

func (p *PopupStack) Remove(pop *shell.XdgPopupRole) error {
	if len(p.stack) == 0 {
		return nil
	}
	if p.stack[len(p.stack)-1] != pop {
		return fmt.Errorf("%w: xdg_popup destroyed out of stack order", wire.ErrProtocol)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *PopupStack) IsTop(pop *shell.XdgPopupRole) bool {
	return len(p.stack) > 0 && p.stack[len(p.stack)-1] == pop
}

func (p *PopupStack) Top() (*shell.XdgPopupRole, bool) {
	if len(p.stack) == 0 {
		return nil, false
	}
	return p.stack[len(p.stack)-1], true
}

func (p *PopupStack) Len() int { return len(p.stack) }

// TopToBottom returns the stack ordered with the top (most recently
// pushed) popup first, for hit-testing (spec.md §4.7).
func (p *PopupStack) TopToBottom() []*shell.XdgPopupRole {
	out := make([]*shell.XdgPopupRole, len(p.stack))
	for i, e := range p.stack {
		out[len(p.stack)-1-i] = e
	}
	return out
}

// RemoveAllOfClient force-closes every popup owned by clientID (connection
// teardown); stack order is preserved among survivors.
func (p *PopupStack) RemoveAllOfClient(owner func(*shell.XdgPopupRole) uint32, clientID uint32) {
	out := p.stack[:0]
	for _, e := range p.stack {
		if owner(e) != clientID {
			out = append(out, e)
		}
	}
	p.stack = out
}
