//go:build windows

package beacon

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// reuseAddr allows several group sockets on this host to bind the same port.
func reuseAddr(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}
