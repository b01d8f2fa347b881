package beacon

import (
	"errors"
	"net/netip"
)

var (
	NotMulticast = errors.New("endpoint address is not a multicast address")
)

// Beacon sends datagrams to a group of listeners on the local network.
type Beacon interface {
	// Send hands data to the network without waiting for it to be sent.
	// There is no guarantee that anyone receives it.
	Send(data []byte)
	Close()
}

// ReceiveHandler is called for every datagram a BroadcastSocket receives.
// data holds the n received bytes and is only valid until the handler returns.
type ReceiveHandler func(from netip.AddrPort, data []byte, n int)
