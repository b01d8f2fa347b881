package beacon

import (
	"net"
	"net/netip"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// State is the state of a single socket of a BroadcastSocket.
// The zero value is reserved for an invalid state.
type State int

const (
	// Open sockets have been created but do not receive yet.
	Open State = iota + 1
	// Receiving sockets have exactly one outstanding receive.
	Receiving
	// Idle sockets stopped receiving after an error or an empty datagram.
	// They are still open and may still be used for sending.
	Idle
	// Closed is final.
	Closed
)

func (s State) Is(state State) bool {
	return s == state
}

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Receiving:
		return "receiving"
	case Idle:
		return "idle"
	case Closed:
		return "closed"
	}
	return "invalid"
}

type socketEntry struct {
	conn   *net.UDPConn
	buffer []byte
	// remote is the sender of the most recent datagram.
	remote netip.AddrPort
	state  State
}

func newSocketEntry(conn *net.UDPConn, bufferSize int) *socketEntry {
	return &socketEntry{
		conn:   conn,
		buffer: make([]byte, bufferSize),
		state:  Open,
	}
}

// multicastConn covers the multicast options of *ipv4.PacketConn and *ipv6.PacketConn.
type multicastConn interface {
	JoinGroup(ifi *net.Interface, group net.Addr) error
	SetMulticastInterface(ifi *net.Interface) error
	SetMulticastLoopback(on bool) error
	SetMulticastHops(hops int) error
}

type multicastConn4 struct {
	*ipv4.PacketConn
}

func (c multicastConn4) SetMulticastHops(hops int) error {
	return c.SetMulticastTTL(hops)
}

type multicastConn6 struct {
	*ipv6.PacketConn
}

func (c multicastConn6) SetMulticastHops(hops int) error {
	return c.SetMulticastHopLimit(hops)
}

func newMulticastConn(conn *net.UDPConn, v4 bool) multicastConn {
	if v4 {
		return multicastConn4{ipv4.NewPacketConn(conn)}
	}
	return multicastConn6{ipv6.NewPacketConn(conn)}
}

func udpNetwork(v4 bool) string {
	if v4 {
		return "udp4"
	}
	return "udp6"
}
