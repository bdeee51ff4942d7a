package server

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// eventTag distinguishes which fd woke epoll up: the listening socket,
// one connected client, or one backend-registered fd (spec.md §6
// "register_fds(fn(fd, tag))").
type eventTagKind int

const (
	tagListener eventTagKind = iota
	tagClient
	tagBackend
)

type eventTag struct {
	kind     eventTagKind
	clientID uint32
	backend  int // the backend.EventTag value, for tagBackend
}

// eventLoop is a thin epoll wrapper: level-triggered readiness on every
// registered fd, tagged so the dispatch loop knows how to handle it.
//
// Grounded on original_source/src/event_loop.rs (epoll Event enum +
// dispatch over a fixed fd set).
type eventLoop struct {
	epfd int
	tags map[int]eventTag
}

func newEventLoop() (*eventLoop, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("eventloop: epoll_create1: %w", err)
	}
	return &eventLoop{epfd: fd, tags: make(map[int]eventTag)}, nil
}

func (l *eventLoop) add(fd int, tag eventTag) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("eventloop: epoll_ctl add fd=%d: %w", fd, err)
	}
	l.tags[fd] = tag
	return nil
}

func (l *eventLoop) remove(fd int) {
	unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	delete(l.tags, fd)
}

// wait blocks up to timeoutMs (or indefinitely, if negative) and invokes
// handle once per fd that became readable.
func (l *eventLoop) wait(timeoutMs int, handle func(eventTag)) error {
	var events [32]unix.EpollEvent
	n, err := unix.EpollWait(l.epfd, events[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("eventloop: epoll_wait: %w", err)
	}
	for i := 0; i < n; i++ {
		if tag, ok := l.tags[int(events[i].Fd)]; ok {
			handle(tag)
		}
	}
	return nil
}

func (l *eventLoop) close() error { return unix.Close(l.epfd) }
