package wire

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Socket is a raw Unix domain stream socket used for both the listening
// endpoint and accepted client connections, kept at the unix.Socket level
// (rather than net.UnixConn) so SCM_RIGHTS ancillary data is reachable.
type Socket struct {
	fd int
}

// Listen creates, binds and listens on a Unix socket at path, matching the
// original's "$XDG_RUNTIME_DIR/wayland-<N>" bind-then-unlink-on-shutdown
// lifecycle. The socket is non-blocking.
func Listen(path string) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	addr := &unix.SockaddrUnix{Name: path}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", path, err)
	}
	if err := unix.Listen(fd, 128); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	return &Socket{fd: fd}, nil
}

// Accept accepts one pending connection as a non-blocking Socket. Returns
// ErrWouldBlock if none is pending.
func (s *Socket) Accept() (*Socket, error) {
	nfd, _, err := unix.Accept4(s.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return nil, ErrWouldBlock
		}
		return nil, err
	}
	return &Socket{fd: nfd}, nil
}

func (s *Socket) FD() int { return s.fd }

func (s *Socket) Close() error { return unix.Close(s.fd) }

// Recv reads available bytes plus any SCM_RIGHTS fds riding along.
func (s *Socket) Recv(buf []byte) (int, []int, error) {
	oob := make([]byte, unix.CmsgSpace(16*4))
	n, oobn, _, _, err := unix.Recvmsg(s.fd, buf, oob, 0)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return 0, nil, ErrWouldBlock
		}
		return 0, nil, err
	}
	var fds []int
	if oobn > 0 {
		cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
		if err == nil {
			for _, cm := range cmsgs {
				if cm.Header.Level == unix.SOL_SOCKET && cm.Header.Type == unix.SCM_RIGHTS {
					got, err := unix.ParseUnixRights(&cm)
					if err == nil {
						fds = append(fds, got...)
					}
				}
			}
		}
	}
	return n, fds, nil
}

// Send writes buf (possibly partially) plus fds as SCM_RIGHTS ancillary
// data on the first call for this batch.
func (s *Socket) Send(buf []byte, fds []int) (int, error) {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	n, err := unix.SendmsgN(s.fd, buf, oob, nil, unix.MSG_NOSIGNAL)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	return n, nil
}

// DupFromFile wraps an already-open *os.File (e.g. a memfd for a shm pool)
// as a raw fd suitable for an ArgValue.FD, transferring ownership.
func DupFromFile(f *os.File) int {
	return int(f.Fd())
}
