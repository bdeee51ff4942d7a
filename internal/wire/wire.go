// Package wire implements the Wayland byte+fd wire protocol: the 8-byte
// message header, typed argument encoding, and ancillary-data fd passing
// over a Unix domain socket.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// ArgType enumerates the wire argument kinds a message signature can carry.
type ArgType int

const (
	ArgInt ArgType = iota
	ArgUint
	ArgFixed
	ArgString
	ArgArray
	ArgObject
	ArgNewID
	ArgFD
)

// Fixed is a 24.8 signed fixed-point number, as used for pointer coordinates.
type Fixed int32

func FixedFromFloat(f float64) Fixed { return Fixed(int32(f * 256)) }
func (f Fixed) Float() float64       { return float64(f) / 256 }

// ErrProtocol marks a malformed or schema-violating message: fatal to the
// connection it occurred on.
var ErrProtocol = errors.New("wire: protocol error")

func ProtocolErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}

// ErrWouldBlock signals a non-blocking socket operation (read, write or
// accept) that could not complete right now and must be retried later.
var ErrWouldBlock = errors.New("wire: would block")

const headerSize = 8
const maxMessageSize = 1 << 16 // size field is size<<16 in the header word

// Message is one decoded request or event: a target/sender object id, an
// opcode, and its decoded argument vector (plus any fds that rode along).
type Message struct {
	ObjectID uint32
	Opcode   uint16
	Args     []ArgValue
}

// ArgValue is a decoded argument. Exactly one field is meaningful,
// selected by the corresponding ArgType in the message signature.
type ArgValue struct {
	Int    int32
	Uint   uint32
	Fixed  Fixed
	Str    string
	Arr    []byte
	Object uint32 // 0 means the null object
	NewID  uint32
	FD     int
}

// Conn frames Messages over a *Socket; it owns read/write buffering and fd
// passing via SCM_RIGHTS ancillary data.
type Conn struct {
	sock *Socket

	rbuf    []byte
	rstart  int
	rend    int
	pendFDs []int

	wbuf       []byte
	pendOutFDs []int
}

func NewConn(sock *Socket) *Conn {
	return &Conn{sock: sock, rbuf: make([]byte, 64*1024)}
}

func (c *Conn) Close() error { return c.sock.Close() }

// fillRead tops up the read buffer with at least n more bytes available,
// compacting consumed bytes first. Returns ErrWouldBlock if the socket
// has no more data right now, and io.EOF if the peer closed it.
func (c *Conn) fillRead(n int) error {
	if c.rend-c.rstart >= n {
		return nil
	}
	if c.rstart > 0 {
		copy(c.rbuf, c.rbuf[c.rstart:c.rend])
		c.rend -= c.rstart
		c.rstart = 0
	}
	for c.rend-c.rstart < n {
		if c.rend == len(c.rbuf) {
			c.rbuf = append(c.rbuf, make([]byte, len(c.rbuf))...)
		}
		nn, fds, err := c.sock.Recv(c.rbuf[c.rend:])
		if err != nil {
			if errors.Is(err, ErrWouldBlock) {
				return ErrWouldBlock
			}
			return err
		}
		if nn == 0 {
			return io.EOF
		}
		c.pendFDs = append(c.pendFDs, fds...)
		c.rend += nn
	}
	return nil
}

// PeekHeader reads the next message's header without consuming it and
// returns its object id, opcode and size. The caller looks up the request
// signature from that object's interface before calling ReadMessage
// (two-phase: PeekHeader then ReadMessage).
func (c *Conn) PeekHeader() (objectID uint32, opcode uint16, size int, err error) {
	if err = c.fillRead(headerSize); err != nil {
		return 0, 0, 0, err
	}
	h := c.rbuf[c.rstart : c.rstart+headerSize]
	objectID = binary.LittleEndian.Uint32(h[0:4])
	word := binary.LittleEndian.Uint32(h[4:8])
	opcode = uint16(word & 0xffff)
	size = int(word >> 16)
	if size < headerSize || size%4 != 0 {
		return 0, 0, 0, ProtocolErrorf("malformed header: size=%d", size)
	}
	if size > maxMessageSize {
		return 0, 0, 0, ProtocolErrorf("message too large: size=%d", size)
	}
	return objectID, opcode, size, nil
}

// ReadMessage consumes the message previously peeked with PeekHeader,
// decoding its arguments per sig.
func (c *Conn) ReadMessage(size int, sig []ArgType) (Message, error) {
	if err := c.fillRead(size); err != nil {
		return Message{}, err
	}
	body := c.rbuf[c.rstart+headerSize : c.rstart+size]
	objectID := binary.LittleEndian.Uint32(c.rbuf[c.rstart : c.rstart+4])
	opcode := uint16(binary.LittleEndian.Uint32(c.rbuf[c.rstart+4:c.rstart+8]) & 0xffff)

	args := make([]ArgValue, len(sig))
	off := 0
	for i, t := range sig {
		switch t {
		case ArgInt:
			v, err := take4(body, &off)
			if err != nil {
				return Message{}, err
			}
			args[i].Int = int32(v)
		case ArgUint, ArgObject:
			v, err := take4(body, &off)
			if err != nil {
				return Message{}, err
			}
			if t == ArgObject {
				args[i].Object = v
			} else {
				args[i].Uint = v
			}
		case ArgFixed:
			v, err := take4(body, &off)
			if err != nil {
				return Message{}, err
			}
			args[i].Fixed = Fixed(int32(v))
		case ArgNewID:
			v, err := take4(body, &off)
			if err != nil {
				return Message{}, err
			}
			args[i].NewID = v
		case ArgString:
			s, err := takeString(body, &off)
			if err != nil {
				return Message{}, err
			}
			args[i].Str = s
		case ArgArray:
			a, err := takeArray(body, &off)
			if err != nil {
				return Message{}, err
			}
			args[i].Arr = a
		case ArgFD:
			if len(c.pendFDs) == 0 {
				return Message{}, ProtocolErrorf("expected fd, none available")
			}
			args[i].FD = c.pendFDs[0]
			c.pendFDs = c.pendFDs[1:]
		}
	}
	if off != len(body) {
		return Message{}, ProtocolErrorf("trailing bytes in message body: %d left", len(body)-off)
	}
	c.rstart += size
	return Message{ObjectID: objectID, Opcode: opcode, Args: args}, nil
}

func take4(b []byte, off *int) (uint32, error) {
	if *off+4 > len(b) {
		return 0, ProtocolErrorf("short argument")
	}
	v := binary.LittleEndian.Uint32(b[*off : *off+4])
	*off += 4
	return v, nil
}

func takeArray(b []byte, off *int) ([]byte, error) {
	n, err := take4(b, off)
	if err != nil {
		return nil, err
	}
	padded := align4(int(n))
	if *off+padded > len(b) {
		return nil, ProtocolErrorf("short array argument")
	}
	out := append([]byte(nil), b[*off:*off+int(n)]...)
	*off += padded
	return out, nil
}

func takeString(b []byte, off *int) (string, error) {
	arr, err := takeArray(b, off)
	if err != nil {
		return "", err
	}
	if len(arr) == 0 {
		return "", nil
	}
	// Wayland strings are NUL-terminated; trailing NUL counted in length.
	return string(arr[:len(arr)-1]), nil
}

func align4(n int) int { return (n + 3) &^ 3 }

// WriteMessage appends an encoded event to the outbound buffer. Call Flush
// to actually send it; fds in sig positions are queued for the next Flush's
// ancillary data.
func (c *Conn) WriteMessage(objectID uint32, opcode uint16, sig []ArgType, args []ArgValue) error {
	if len(sig) != len(args) {
		return fmt.Errorf("wire: signature/args length mismatch")
	}
	body := make([]byte, 0, 32)
	var fds []int
	for i, t := range sig {
		a := args[i]
		switch t {
		case ArgInt:
			body = put4(body, uint32(a.Int))
		case ArgUint:
			body = put4(body, a.Uint)
		case ArgObject:
			body = put4(body, a.Object)
		case ArgNewID:
			body = put4(body, a.NewID)
		case ArgFixed:
			body = put4(body, uint32(int32(a.Fixed)))
		case ArgString:
			body = putString(body, a.Str)
		case ArgArray:
			body = putArray(body, a.Arr)
		case ArgFD:
			fds = append(fds, a.FD)
		}
	}
	total := headerSize + len(body)
	if total > maxMessageSize {
		return ProtocolErrorf("outgoing message too large: %d", total)
	}
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], objectID)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(total<<16)|uint32(opcode))
	c.wbuf = append(c.wbuf, hdr...)
	c.wbuf = append(c.wbuf, body...)
	c.pendOutFDs = append(c.pendOutFDs, fds...)
	return nil
}

func put4(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func putArray(b []byte, a []byte) []byte {
	b = put4(b, uint32(len(a)))
	b = append(b, a...)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func putString(b []byte, s string) []byte {
	return putArray(b, append([]byte(s), 0))
}

// Flush drains as much of the outbound buffer as the socket accepts. If the
// socket would block partway through, the remainder stays queued and
// ErrWouldBlock is returned so the caller marks this connection
// flush-on-idle.
func (c *Conn) Flush() error {
	for len(c.wbuf) > 0 {
		var fds []int
		if len(c.pendOutFDs) > 0 {
			fds = c.pendOutFDs
		}
		n, err := c.sock.Send(c.wbuf, fds)
		if err != nil {
			if errors.Is(err, ErrWouldBlock) {
				return ErrWouldBlock
			}
			return err
		}
		c.pendOutFDs = nil
		c.wbuf = c.wbuf[n:]
	}
	return nil
}

// pendOutFDs queues fds attached to not-yet-flushed messages.
var _ = unix.SCM_RIGHTS
