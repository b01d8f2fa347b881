//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package beacon

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddr allows several group sockets on this host to bind the same port.
func reuseAddr(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if opErr != nil {
			return
		}
		// BSD systems only share multicast ports with SO_REUSEPORT
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}
