package network

import (
	"net"
)

// Tracker enumerates the addresses of the networks this device is connected to.
// The order of the returned entries is the order in which they are considered
// by consumers like GuessLocalAddress.
// An error may be returned together with a partial list of entries,
// consumers treat such a list as usable.
type Tracker interface {
	Interfaces() (present []Net, err error)
}

func NewTracker() Tracker {
	return &hostTracker{}
}

// StaticTracker is a Tracker that always reports the same entries.
type StaticTracker []Net

func (t StaticTracker) Interfaces() ([]Net, error) {
	present := make([]Net, len(t))
	copy(present, t)
	return present, nil
}

// hostTracker enumerates the interfaces of this host.
type hostTracker struct{}

func (t *hostTracker) Interfaces() (present []Net, err error) {
	ins, err := net.Interfaces()
	if err != nil {
		return
	}
	present = make([]Net, 0, 8)
	for _, in := range ins {
		if in.Flags&net.FlagUp == 0 {
			// ignore interfaces that are down
			continue
		}
		inAddrs, e1 := in.Addrs()
		if e1 != nil {
			if err == nil {
				err = e1
			}
			continue
		}
		for _, inAddr := range inAddrs {
			addr, ok := inAddr.(*net.IPNet)
			if !ok {
				continue
			}
			present = append(present, Net{
				IPNet:     *addr,
				Interface: in,
			})
		}
	}
	return
}
