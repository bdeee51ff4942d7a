package shell

import "github.com/ewc-project/ewc/internal/wire"

// errProtocol re-exports wire.ErrProtocol so this package's error
// messages wrap the same sentinel the connection layer tears down on.
var errProtocol = wire.ErrProtocol
