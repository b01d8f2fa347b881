package network

import (
	"net"
	"net/netip"
)

// Net is one address of a network interface, as reported by a Tracker.
type Net struct {
	net.IPNet
	Interface net.Interface
}

func (n *Net) IsUp() bool {
	return n.Interface.Flags&net.FlagUp != 0
}

func (n *Net) IsLoopback() bool {
	return n.Interface.Flags&net.FlagLoopback != 0
}

func (n *Net) IsMulticast() bool {
	return n.Interface.Flags&net.FlagMulticast != 0
}

// Addr returns the interface address.
// Link-local IPv6 addresses carry the interface name as their zone
// so that they can be bound to.
func (n *Net) Addr() netip.Addr {
	addr := AddrFromIP(n.IP)
	if addr.Is6() && IsLocal(addr) && n.Interface.Name != "" {
		addr = addr.WithZone(n.Interface.Name)
	}
	return addr
}
