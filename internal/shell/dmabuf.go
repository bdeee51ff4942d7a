package shell

import "fmt"

// RejectDmabuf is the dispatch-time resolution of the Open Question in
// spec.md §9 ("the source occasionally panics (todo!()) on protocols it
// declares support for ... implementations should either degrade
// gracefully or deliberately reject unsupported requests as
// ProtocolError"). zwp_linux_dmabuf_v1's params/feedback machinery is
// schema-complete (internal/proto) but never actually imports a dma-buf
// as a usable buffer in this core, since there is no GPU import path
// wired to any Backend in this module; every request that would need
// one is rejected here instead of reaching an unreachable code path.
func RejectDmabuf(request string) error {
	return fmt.Errorf("%w: zwp_linux_dmabuf_v1.%s: dma-buf import unsupported", errProtocol, request)
}

// RejectTabletTool is the analogous resolution for
// wp_cursor_shape_manager_v1.get_tablet_tool_v2, which the original also
// leaves as todo!().
func RejectTabletTool() error {
	return fmt.Errorf("%w: wp_cursor_shape_manager_v1.get_tablet_tool_v2: tablet tool cursor shape unsupported", errProtocol)
}
