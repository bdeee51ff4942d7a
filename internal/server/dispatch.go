package server

import (
	"fmt"

	"github.com/ewc-project/ewc/internal/proto"
	"github.com/ewc-project/ewc/internal/wire"
)

// resourceHandler is the object.Dispatcher every live object in a
// Client's table is registered with; it just closes over which client
// and which interface's request table to route into.
type resourceHandler struct {
	c         *Client
	id        uint32
	ifaceName string
}

func (h *resourceHandler) Dispatch(msg wire.Message, desc *proto.MessageDesc) error {
	return h.c.dispatchRequest(h.id, h.ifaceName, desc.Name, msg)
}

// dispatchRequest is the single point every decoded client request passes
// through, routed by interface name then request name (spec.md §4.2
// "Request dispatch").
func (c *Client) dispatchRequest(objID uint32, ifaceName, reqName string, msg wire.Message) error {
	switch ifaceName {
	case "wl_display":
		return c.handleDisplay(objID, reqName, msg)
	case "wl_registry":
		return c.handleRegistry(objID, reqName, msg)
	case "wl_callback":
		return fmt.Errorf("%w: wl_callback has no requests", wire.ErrProtocol)
	case "wl_compositor":
		return c.handleCompositor(objID, reqName, msg)
	case "wl_subcompositor":
		return c.handleSubcompositor(objID, reqName, msg)
	case "wl_surface":
		return c.handleSurface(objID, reqName, msg)
	case "wl_subsurface":
		return c.handleSubsurface(objID, reqName, msg)
	case "wl_region":
		return c.handleRegion(objID, reqName, msg)
	case "wl_shm":
		return c.handleShm(objID, reqName, msg)
	case "wl_shm_pool":
		return c.handleShmPool(objID, reqName, msg)
	case "wl_buffer":
		return c.handleBuffer(objID, reqName, msg)
	case "wl_output":
		return c.handleOutput(objID, reqName, msg)
	case "wl_data_device_manager":
		return nil // schema-present, no actual data-transfer path wired
	case "wl_seat":
		return c.handleSeat(objID, reqName, msg)
	case "wl_keyboard":
		return c.handleKeyboard(objID, reqName, msg)
	case "wl_pointer":
		return c.handlePointer(objID, reqName, msg)
	case "xdg_wm_base":
		return c.handleWmBase(objID, reqName, msg)
	case "xdg_positioner":
		return c.handlePositioner(objID, reqName, msg)
	case "xdg_surface":
		return c.handleXdgSurface(objID, reqName, msg)
	case "xdg_toplevel":
		return c.handleToplevel(objID, reqName, msg)
	case "xdg_popup":
		return c.handlePopup(objID, reqName, msg)
	case "wp_viewporter":
		return c.handleViewporter(objID, reqName, msg)
	case "wp_viewport":
		return c.handleViewport(objID, reqName, msg)
	case "wp_single_pixel_buffer_manager_v1":
		return c.handleSinglePixelManager(objID, reqName, msg)
	case "wp_cursor_shape_manager_v1":
		return c.handleCursorShapeManager(objID, reqName, msg)
	case "wp_cursor_shape_device_v1":
		return c.handleCursorShapeDevice(objID, reqName, msg)
	case "zwp_linux_dmabuf_v1", "zwp_linux_buffer_params_v1", "zwp_linux_dmabuf_feedback_v1":
		return c.handleDmabuf(ifaceName, reqName)
	default:
		return fmt.Errorf("%w: unhandled interface %s", wire.ErrProtocol, ifaceName)
	}
}
