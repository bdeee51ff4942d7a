package server

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/wire"
)

// keyboardResource wire-encodes input.KeyboardSink events onto one bound
// wl_keyboard resource, synthesizing the per-resource serial wl_keyboard
// events carry (the input core's Keyboard has no notion of serials --
// only Pointer does, per spec.md §4.7).
type keyboardResource struct {
	c      *Client
	objID  uint32
	serial uint32
}

func (k *keyboardResource) next() uint32 { k.serial++; return k.serial }

func (k *keyboardResource) SendKeymap(format uint32, fd int, size uint32) {
	k.c.conn.WriteMessage(k.objID, 0, proto.WlKeyboard.Events[0].Sig, []wire.ArgValue{
		{Uint: format}, {FD: fd}, {Uint: size},
	})
	k.c.conn.Flush()
}

func (k *keyboardResource) SendEnter(surfaceObjectID uint32, keys []byte) {
	k.c.conn.WriteMessage(k.objID, 1, proto.WlKeyboard.Events[1].Sig, []wire.ArgValue{
		{Uint: k.next()}, {Object: surfaceObjectID}, {Arr: keys},
	})
}

func (k *keyboardResource) SendLeave(surfaceObjectID uint32) {
	k.c.conn.WriteMessage(k.objID, 2, proto.WlKeyboard.Events[2].Sig, []wire.ArgValue{
		{Uint: k.next()}, {Object: surfaceObjectID},
	})
}

func (k *keyboardResource) SendKey(time, key, state uint32) {
	k.c.conn.WriteMessage(k.objID, 3, proto.WlKeyboard.Events[3].Sig, []wire.ArgValue{
		{Uint: k.next()}, {Uint: time}, {Uint: key}, {Uint: state},
	})
}

func (k *keyboardResource) SendModifiers(depressed, latched, locked, group uint32) {
	k.c.conn.WriteMessage(k.objID, 4, proto.WlKeyboard.Events[4].Sig, []wire.ArgValue{
		{Uint: k.next()}, {Uint: depressed}, {Uint: latched}, {Uint: locked}, {Uint: group},
	})
}

func (k *keyboardResource) SendRepeatInfo(rate, delay int32) {
	k.c.conn.WriteMessage(k.objID, 5, proto.WlKeyboard.Events[5].Sig, []wire.ArgValue{
		{Int: rate}, {Int: delay},
	})
}

// pointerResource wire-encodes input.PointerSink events; serials are
// generated by the shared Pointer core (spec.md §4.7), so these methods
// only encode, not allocate.
type pointerResource struct {
	c     *Client
	objID uint32
}

func (p *pointerResource) SendEnter(serial, surfaceObjectID uint32, x, y float64) {
	p.c.conn.WriteMessage(p.objID, 0, proto.WlPointer.Events[0].Sig, []wire.ArgValue{
		{Uint: serial}, {Object: surfaceObjectID}, {Fixed: wire.FixedFromFloat(x)}, {Fixed: wire.FixedFromFloat(y)},
	})
	p.c.conn.Flush()
}

func (p *pointerResource) SendLeave(serial, surfaceObjectID uint32) {
	p.c.conn.WriteMessage(p.objID, 1, proto.WlPointer.Events[1].Sig, []wire.ArgValue{
		{Uint: serial}, {Object: surfaceObjectID},
	})
}

func (p *pointerResource) SendMotion(time uint32, x, y float64) {
	p.c.conn.WriteMessage(p.objID, 2, proto.WlPointer.Events[2].Sig, []wire.ArgValue{
		{Uint: time}, {Fixed: wire.FixedFromFloat(x)}, {Fixed: wire.FixedFromFloat(y)},
	})
}

func (p *pointerResource) SendButton(serial, time, button, state uint32) {
	p.c.conn.WriteMessage(p.objID, 3, proto.WlPointer.Events[3].Sig, []wire.ArgValue{
		{Uint: serial}, {Uint: time}, {Uint: button}, {Uint: state},
	})
}

func (p *pointerResource) SendAxisVertical(time uint32, value float64) {
	const axisVertical = 0
	p.c.conn.WriteMessage(p.objID, 4, proto.WlPointer.Events[4].Sig, []wire.ArgValue{
		{Uint: time}, {Uint: axisVertical}, {Fixed: wire.FixedFromFloat(value)},
	})
}

func (c *Client) handleSeat(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "get_pointer":
		id := msg.Args[0].NewID
		if err := c.register(id, proto.WlPointer, 9); err != nil {
			return err
		}
		pr := &pointerResource{c: c, objID: id}
		c.pointers[id] = pr
		c.srv.input.Pointer.Bind(c.id, pr)
		return nil
	case "get_keyboard":
		id := msg.Args[0].NewID
		if err := c.register(id, proto.WlKeyboard, 9); err != nil {
			return err
		}
		kr := &keyboardResource{c: c, objID: id}
		c.keyboards[id] = kr
		c.srv.input.Keyboard.Bind(c.id, kr, 9)
		return nil
	case "get_touch":
		return fmt.Errorf("%w: wl_seat.get_touch: touch unsupported", wire.ErrProtocol)
	case "release":
		c.destroyObject(objID)
		return nil
	}
	return fmt.Errorf("%w: wl_seat.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleKeyboard(objID uint32, reqName string, msg wire.Message) error {
	if reqName != "release" {
		return fmt.Errorf("%w: wl_keyboard.%s unknown", wire.ErrProtocol, reqName)
	}
	if kr, ok := c.keyboards[objID]; ok {
		c.srv.input.Keyboard.Release(kr)
		delete(c.keyboards, objID)
	}
	c.destroyObject(objID)
	return nil
}

func (c *Client) handlePointer(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "set_cursor":
		surfObj := msg.Args[1].Object
		if surfObj == 0 {
			c.srv.cursor.Hide()
			return nil
		}
		s, ok := c.surfaces[surfObj]
		if !ok {
			return nil
		}
		c.srv.cursor.SetSurface(s, msg.Args[2].Int, msg.Args[3].Int)
		return nil
	case "release":
		if pr, ok := c.pointers[objID]; ok {
			c.srv.input.Pointer.Release(pr)
			delete(c.pointers, objID)
		}
		c.destroyObject(objID)
		return nil
	}
	return fmt.Errorf("%w: wl_pointer.%s unknown", wire.ErrProtocol, reqName)
}
