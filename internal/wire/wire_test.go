package wire

import (
	"testing"

	"golang.org/x/sys/unix"
)

// connPair returns two Conns wired to opposite ends of a connected,
// non-blocking Unix socketpair, for exercising WriteMessage/Flush/
// PeekHeader/ReadMessage round trips without a real listening socket.
func connPair(t *testing.T) (a, b *Conn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	sa := &Socket{fd: fds[0]}
	sb := &Socket{fd: fds[1]}
	t.Cleanup(func() {
		sa.Close()
		sb.Close()
	})
	return NewConn(sa), NewConn(sb)
}

func TestWriteReadMessageRoundTrip(t *testing.T) {
	a, b := connPair(t)

	sig := []ArgType{ArgUint, ArgInt, ArgFixed, ArgString, ArgArray}
	args := []ArgValue{
		{Uint: 42},
		{Int: -7},
		{Fixed: FixedFromFloat(3.5)},
		{Str: "hello"},
		{Arr: []byte{1, 2, 3, 4, 5}},
	}
	if err := a.WriteMessage(5, 2, sig, args); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if err := a.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	objID, opcode, size, err := b.PeekHeader()
	if err != nil {
		t.Fatalf("PeekHeader: %v", err)
	}
	if objID != 5 || opcode != 2 {
		t.Fatalf("PeekHeader() = (%d,%d), want (5,2)", objID, opcode)
	}

	msg, err := b.ReadMessage(size, sig)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.Args[0].Uint != 42 {
		t.Fatalf("arg0 Uint = %d, want 42", msg.Args[0].Uint)
	}
	if msg.Args[1].Int != -7 {
		t.Fatalf("arg1 Int = %d, want -7", msg.Args[1].Int)
	}
	if msg.Args[2].Fixed.Float() != FixedFromFloat(3.5).Float() {
		t.Fatalf("arg2 Fixed = %v, want 3.5", msg.Args[2].Fixed.Float())
	}
	if msg.Args[3].Str != "hello" {
		t.Fatalf("arg3 Str = %q, want %q", msg.Args[3].Str, "hello")
	}
	if string(msg.Args[4].Arr) != "\x01\x02\x03\x04\x05" {
		t.Fatalf("arg4 Arr = %v, want [1 2 3 4 5]", msg.Args[4].Arr)
	}
}

func TestPeekHeaderRejectsMalformedSize(t *testing.T) {
	a, b := connPair(t)

	// size field not a multiple of 4, and smaller than the header itself.
	raw := []byte{5, 0, 0, 0, 0, 0, 3, 0}
	if _, err := a.sock.Send(raw, nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, _, _, err := b.PeekHeader(); err == nil {
		t.Fatalf("expected a protocol error for a malformed size field")
	}
}

func TestReadMessageRejectsTrailingBytes(t *testing.T) {
	a, b := connPair(t)

	// One ArgUint argument declared, but the message body carries two
	// words worth of payload: ReadMessage must reject the trailing bytes.
	if err := a.WriteMessage(1, 0, []ArgType{ArgUint, ArgUint}, []ArgValue{{Uint: 1}, {Uint: 2}}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if err := a.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	_, _, size, err := b.PeekHeader()
	if err != nil {
		t.Fatalf("PeekHeader: %v", err)
	}
	if _, err := b.ReadMessage(size, []ArgType{ArgUint}); err == nil {
		t.Fatalf("expected a protocol error for trailing bytes")
	}
}

func TestFixedFromFloatRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 3.5, -12.25} {
		got := FixedFromFloat(f).Float()
		if got != f {
			t.Errorf("FixedFromFloat(%v).Float() = %v, want %v", f, got, f)
		}
	}
}
