package network

import (
	"math/bits"
	"net"
	"net/netip"
)

// The predicates in this file distinguish address families strictly:
// an IPv4-mapped IPv6 address is an IPv6 address and is only ever
// unmapped by IsAny. The invalid zero netip.Addr satisfies none of them.

var (
	teredoPrefix = [4]byte{0x20, 0x01, 0x00, 0x00}

	loopback4 = netip.AddrFrom4([4]byte{127, 0, 0, 1})
	any4      = netip.IPv4Unspecified()
)

// IsLocal reports whether a is an IPv6 link-local address
// or an IPv4 address in one of the private ranges
// 10.0.0.0/8, 172.16.0.0/12 and 192.168.0.0/16.
func IsLocal(a netip.Addr) bool {
	if a.Is6() {
		b := a.As16()
		return b[0] == 0xfe && b[1]&0xc0 == 0x80
	}
	if !a.Is4() {
		return false
	}
	b := a.As4()
	return b[0] == 10 ||
		b[0] == 172 && b[1]&0xf0 == 16 ||
		b[0] == 192 && b[1] == 168
}

// IsLoopback reports whether a is exactly 127.0.0.1 or ::1.
func IsLoopback(a netip.Addr) bool {
	if a.Is4() {
		return a == loopback4
	}
	return a.Is6() && a.WithZone("") == netip.IPv6Loopback()
}

func IsMulticast(a netip.Addr) bool {
	if a.Is4() {
		return a.As4()[0]&0xf0 == 0xe0
	}
	return a.Is6() && a.As16()[0] == 0xff
}

// IsAny reports whether a is the wildcard address of its family.
// The IPv4-mapped wildcard ::ffff:0.0.0.0 counts as a wildcard as well.
func IsAny(a netip.Addr) bool {
	if a.Is4() {
		return a == any4
	}
	if a.Is4In6() {
		return a.Unmap() == any4
	}
	return a.Is6() && a.WithZone("") == netip.IPv6Unspecified()
}

// IsTeredo reports whether a is an IPv6 address of the Teredo tunneling prefix 2001::/32.
func IsTeredo(a netip.Addr) bool {
	if !a.Is6() {
		return false
	}
	b := a.As16()
	return [4]byte(b[:4]) == teredoPrefix
}

// SupportsIPv6 reports whether IPv6 literals can be parsed.
// It does not check whether the host has IPv6 connectivity.
func SupportsIPv6() bool {
	_, err := netip.ParseAddr("::1")
	return err == nil
}

// CommonBits counts the leading bits b1 and b2 have in common,
// starting with the most significant bit of the first byte.
// Only the first min(len(b1), len(b2)) bytes are compared.
func CommonBits(b1, b2 []byte) int {
	n := len(b1)
	if len(b2) < n {
		n = len(b2)
	}
	for i := 0; i < n; i++ {
		if x := b1[i] ^ b2[i]; x != 0 {
			return i*8 + bits.LeadingZeros8(x)
		}
	}
	return n * 8
}

// CIDRDistance returns the number of bits in which a1 and a2 differ,
// counted from the first differing bit to the end of the address.
// Two IPv4 addresses are compared in their 4-byte form,
// any other combination in the 16-byte form with IPv4 addresses mapped to IPv6.
func CIDRDistance(a1, a2 netip.Addr) int {
	if a1.Is4() && a2.Is4() {
		b1, b2 := a1.As4(), a2.As4()
		return len(b1)*8 - CommonBits(b1[:], b2[:])
	}
	b1, b2 := a1.As16(), a2.As16()
	return len(b1)*8 - CommonBits(b1[:], b2[:])
}

// AddrFromIP converts ip to a netip.Addr.
// Addresses which have a 4-byte representation become IPv4 addresses.
func AddrFromIP(ip net.IP) netip.Addr {
	if ip4 := ip.To4(); ip4 != nil {
		return netip.AddrFrom4([4]byte(ip4))
	}
	addr, _ := netip.AddrFromSlice(ip)
	return addr
}
