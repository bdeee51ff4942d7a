package server

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestEventLoopWaitDispatchesRegisteredFD(t *testing.T) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	loop, err := newEventLoop()
	if err != nil {
		t.Fatalf("newEventLoop: %v", err)
	}
	defer loop.close()

	want := eventTag{kind: tagClient, clientID: 7}
	if err := loop.add(fds[0], want); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := unix.Write(fds[1], []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got eventTag
	var fired bool
	if err := loop.wait(1000, func(tag eventTag) {
		got = tag
		fired = true
	}); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !fired {
		t.Fatalf("wait should have dispatched the readable fd")
	}
	if got != want {
		t.Fatalf("dispatched tag = %+v, want %+v", got, want)
	}
}

func TestEventLoopRemoveStopsDispatch(t *testing.T) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	loop, err := newEventLoop()
	if err != nil {
		t.Fatalf("newEventLoop: %v", err)
	}
	defer loop.close()

	loop.add(fds[0], eventTag{kind: tagClient, clientID: 1})
	loop.remove(fds[0])

	unix.Write(fds[1], []byte("x"))

	fired := false
	if err := loop.wait(100, func(eventTag) { fired = true }); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if fired {
		t.Fatalf("wait must not dispatch an fd after remove")
	}
}

func TestEventLoopWaitTimesOutWithNoFDs(t *testing.T) {
	loop, err := newEventLoop()
	if err != nil {
		t.Fatalf("newEventLoop: %v", err)
	}
	defer loop.close()

	fired := false
	if err := loop.wait(10, func(eventTag) { fired = true }); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if fired {
		t.Fatalf("wait should time out without dispatching anything")
	}
}
