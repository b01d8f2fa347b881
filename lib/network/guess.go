package network

import (
	"net/netip"
)

// GuessLocalAddress makes a best guess of the address this device is reachable at.
//
// Loopback, multicast and wildcard addresses are skipped.
// The first IPv4 address that is not a private address is returned immediately.
// Otherwise the last private IPv4 address is remembered,
// which may be replaced by a later IPv6 address once such a candidate exists.
// Without any candidate the IPv4 loopback address is returned.
// An enumeration error is not fatal, whatever the tracker reported is used.
func GuessLocalAddress(tracker Tracker) netip.Addr {
	present, _ := tracker.Interfaces()
	ret := any4
	for i := range present {
		a := present[i].Addr()
		if IsLoopback(a) || IsMulticast(a) || IsAny(a) || !a.IsValid() {
			continue
		}
		if a.Is4() {
			if !IsLocal(a) {
				return a
			}
			ret = a
		} else if ret != any4 {
			ret = a
		}
	}
	if ret == any4 {
		ret = loopback4
	}
	return ret
}
