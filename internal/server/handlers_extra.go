package server

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/backend"
	"github.com/ewc-project/ewc/internal/compositor"
	"github.com/ewc-project/ewc/internal/cursor"
	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/shell"
	"github.com/ewc-project/ewc/internal/wire"
)

func (c *Client) handleViewporter(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "destroy":
		c.destroyObject(objID)
		return nil
	case "get_viewport":
		id := msg.Args[0].NewID
		s, ok := c.surfaces[msg.Args[1].Object]
		if !ok {
			return fmt.Errorf("%w: get_viewport: unknown surface", wire.ErrProtocol)
		}
		if err := c.register(id, proto.WpViewport, 1); err != nil {
			return err
		}
		c.viewports[id] = s
		return nil
	}
	return fmt.Errorf("%w: wp_viewporter.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleViewport(objID uint32, reqName string, msg wire.Message) error {
	s, ok := c.viewports[objID]
	if !ok {
		return nil
	}
	switch reqName {
	case "destroy":
		delete(c.viewports, objID)
		c.destroyObject(objID)
		return nil
	case "set_source":
		x, y := msg.Args[0].Fixed.Float(), msg.Args[1].Fixed.Float()
		w, h := msg.Args[2].Fixed.Float(), msg.Args[3].Fixed.Float()
		unset := msg.Args[0].Fixed == wire.Fixed(-256) // -1.0 in 24.8 fixed marks "unset"
		s.SetViewportSource(x, y, w, h, unset)
		return nil
	case "set_destination":
		w, h := msg.Args[0].Int, msg.Args[1].Int
		s.SetViewportDestination(w, h, w == -1)
		return nil
	}
	return fmt.Errorf("%w: wp_viewport.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleSinglePixelManager(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "destroy":
		c.destroyObject(objID)
		return nil
	case "create_u32_rgba_buffer":
		bufID := msg.Args[0].NewID
		spec := backend.SinglePixelBufferSpec{
			R: msg.Args[1].Uint, G: msg.Args[2].Uint, B: msg.Args[3].Uint, A: msg.Args[4].Uint,
		}
		res := bufferResourceKey(c.id, bufID)
		if err := c.srv.backend.CreateSinglePixBuffer(spec, res); err != nil {
			return fmt.Errorf("create_u32_rgba_buffer: %w", err)
		}
		if err := c.register(bufID, proto.WlBuffer, 1); err != nil {
			return err
		}
		c.buffers[bufID] = &bufferEntry{resource: compositor.BufferResource(res)}
		return nil
	}
	return fmt.Errorf("%w: wp_single_pixel_buffer_manager_v1.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleCursorShapeManager(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "destroy":
		c.destroyObject(objID)
		return nil
	case "get_pointer":
		id := msg.Args[0].NewID
		if err := c.register(id, proto.WpCursorShapeDeviceV1, 1); err != nil {
			return err
		}
		return nil
	case "get_tablet_tool_v2":
		return shell.RejectTabletTool()
	}
	return fmt.Errorf("%w: wp_cursor_shape_manager_v1.%s unknown", wire.ErrProtocol, reqName)
}

func (c *Client) handleCursorShapeDevice(objID uint32, reqName string, msg wire.Message) error {
	switch reqName {
	case "destroy":
		c.destroyObject(objID)
		return nil
	case "set_shape":
		c.srv.cursor.SetShape(cursorKindFromWire(msg.Args[1].Uint))
		return nil
	}
	return fmt.Errorf("%w: wp_cursor_shape_device_v1.%s unknown", wire.ErrProtocol, reqName)
}

// cursorKindFromWire maps the wp_cursor_shape_device_v1.shape enum onto
// this module's small fallback Kind set; unrecognized shapes degrade to
// the default pointer.
func cursorKindFromWire(shape uint32) cursor.Kind {
	switch shape {
	case 2:
		return cursor.KindText
	case 1:
		return cursor.KindPointer
	case 17:
		return cursor.KindMove
	case 6:
		return cursor.KindGrab
	case 9, 10, 11, 12:
		return cursor.KindResize
	default:
		return cursor.KindDefault
	}
}

func (c *Client) handleDmabuf(ifaceName, reqName string) error {
	if ifaceName == "zwp_linux_dmabuf_v1" && (reqName == "destroy" || reqName == "create_params") {
		return nil // schema-present no-ops; only the feedback/plane path is rejected
	}
	return shell.RejectDmabuf(ifaceName + "." + reqName)
}
