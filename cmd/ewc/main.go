// Command ewc is the compositor's entry point: parses the socket-number
// argument, binds $XDG_RUNTIME_DIR/wayland-<N>, and runs the server until
// SIGINT/SIGTERM or a logo+Escape shutdown binding fires.
//
// Grounded on original_source/src/main.rs's main() (socket_number arg,
// XDG_RUNTIME_DIR/wayland-<N> path, signal-to-pipe shutdown) adapted to
// Go's os/signal channel idiom in place of signal_hook's self-pipe.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/ewc-project/ewc/internal/backend/sdlwin"
	"github.com/ewc-project/ewc/internal/config"
	"github.com/ewc-project/ewc/internal/keymap"
	"github.com/ewc-project/ewc/internal/server"
)

const defaultSocketNumber = 10

func main() {
	socketNumber := defaultSocketNumber
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil {
			log.Fatalf("ewc: invalid socket number %q: %v", os.Args[1], err)
		}
		socketNumber = n
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		log.Fatalf("ewc: XDG_RUNTIME_DIR is not set")
	}
	socketPath := filepath.Join(runtimeDir, fmt.Sprintf("wayland-%d", socketNumber))

	cfgPath, err := config.Path()
	if err != nil {
		log.Fatalf("ewc: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("ewc: %v", err)
	}

	win, err := sdlwin.New("ewc", 1280, 720)
	if err != nil {
		log.Fatalf("ewc: backend init: %v", err)
	}
	defer win.Close()

	srv, err := server.New(socketPath, win, keymap.StaticCompiler{}, cfg)
	if err != nil {
		log.Fatalf("ewc: %v", err)
	}
	defer srv.Close()

	log.Printf("ewc: running on %s", socketPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("ewc: received %v, shutting down", sig)
		srv.Close()
		os.Exit(0)
	}()

	if err := srv.Run(); err != nil {
		log.Fatalf("ewc: %v", err)
	}
}
