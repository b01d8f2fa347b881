package base

import (
	"log"
	"net/netip"
	"projekt/beacon/lib/beacon"
	"projekt/beacon/lib/network"
)

// Printer returns a handler that logs every datagram together with
// the distance of its sender to the address this device likely uses.
func Printer() beacon.ReceiveHandler {
	local := network.GuessLocalAddress(network.NewTracker())
	log.Println("LOCAL-ADDRESS", local)
	return func(from netip.AddrPort, data []byte, n int) {
		addr := from.Addr()
		kind := "global"
		switch {
		case network.IsLoopback(addr):
			kind = "loopback"
		case network.IsTeredo(addr):
			kind = "teredo"
		case network.IsLocal(addr):
			kind = "local"
		}
		log.Printf("<- %v (%s, distance %d): %q\n", from, kind, network.CIDRDistance(local, addr), data[:n])
	}
}
