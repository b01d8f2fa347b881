package network

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func addr(s string) netip.Addr {
	return netip.MustParseAddr(s)
}

func TestIsLocal(t *testing.T) {
	for _, s := range []string{
		"10.0.0.0", "10.1.2.3", "10.255.255.255",
		"172.16.0.1", "172.20.10.10", "172.31.255.255",
		"192.168.0.1", "192.168.255.255",
		"fe80::1", "febf::1",
	} {
		assert.True(t, IsLocal(addr(s)), s)
	}
	for _, s := range []string{
		"8.8.8.8", "11.0.0.1", "172.15.255.255", "172.32.0.0",
		"192.167.1.1", "192.169.0.1", "127.0.0.1",
		"fec0::1", "2001:db8::1", "::ffff:10.0.0.1",
	} {
		assert.False(t, IsLocal(addr(s)), s)
	}
	assert.False(t, IsLocal(netip.Addr{}))
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, IsLoopback(addr("127.0.0.1")))
	assert.True(t, IsLoopback(addr("::1")))
	assert.False(t, IsLoopback(addr("192.168.1.1")))
	assert.False(t, IsLoopback(addr("127.0.0.2")))
	assert.False(t, IsLoopback(addr("::ffff:127.0.0.1")))
	assert.False(t, IsLoopback(netip.Addr{}))
}

func TestIsMulticast(t *testing.T) {
	assert.True(t, IsMulticast(addr("239.255.255.250")))
	assert.True(t, IsMulticast(addr("224.0.0.251")))
	assert.True(t, IsMulticast(addr("ff02::fb")))
	assert.False(t, IsMulticast(addr("192.168.1.1")))
	assert.False(t, IsMulticast(addr("240.0.0.1")))
	assert.False(t, IsMulticast(addr("fe80::1")))
	assert.False(t, IsMulticast(netip.Addr{}))
}

func TestIsAny(t *testing.T) {
	assert.True(t, IsAny(addr("0.0.0.0")))
	assert.True(t, IsAny(addr("::")))
	assert.True(t, IsAny(addr("::ffff:0.0.0.0")))
	assert.False(t, IsAny(addr("0.0.0.1")))
	assert.False(t, IsAny(addr("::1")))
	assert.False(t, IsAny(netip.Addr{}))
}

func TestIsTeredo(t *testing.T) {
	teredo := netip.AddrFrom16([16]byte{0x20, 0x01, 0x00, 0x00, 0x41, 0x36})
	assert.True(t, IsTeredo(teredo))
	assert.True(t, IsTeredo(addr("2001:0:4136:e378:8000:63bf:3fff:fdd2")))
	assert.False(t, IsTeredo(addr("2001:db8::1")))
	assert.False(t, IsTeredo(addr("2002::1")))
	assert.False(t, IsTeredo(addr("32.1.0.0")))
	assert.False(t, IsTeredo(netip.Addr{}))
}

func TestSupportsIPv6(t *testing.T) {
	assert.True(t, SupportsIPv6())
}

func TestCommonBits(t *testing.T) {
	assert.Equal(t, 0, CommonBits([]byte{0xff}, []byte{0x00}))
	assert.Equal(t, 8, CommonBits([]byte{0xff}, []byte{0xff}))
	assert.Equal(t, 7, CommonBits([]byte{0x04}, []byte{0x05}))
	assert.Equal(t, 1, CommonBits([]byte{0x80}, []byte{0xc0}))
	assert.Equal(t, 12, CommonBits([]byte{0xab, 0xcd}, []byte{0xab, 0xc0}))
	assert.Equal(t, 16, CommonBits([]byte{0xab, 0xcd}, []byte{0xab, 0xcd, 0xef}))
	assert.Equal(t, 0, CommonBits(nil, nil))
}

func TestCIDRDistance(t *testing.T) {
	assert.Equal(t, 1, CIDRDistance(addr("1.2.3.4"), addr("1.2.3.5")))
	assert.Equal(t, 32, CIDRDistance(addr("0.0.0.0"), addr("128.0.0.0")))
	assert.Equal(t, 8, CIDRDistance(addr("10.0.0.1"), addr("10.0.0.255")))
	assert.Equal(t, 128, CIDRDistance(addr("::"), addr("8000::")))
	// mixed families compare in the IPv4-mapped form
	assert.Equal(t, 1, CIDRDistance(addr("1.2.3.4"), addr("::ffff:1.2.3.5")))
	assert.Equal(t, 48, CIDRDistance(addr("1.2.3.4"), addr("::1")))
}

func TestCIDRDistance_Properties(t *testing.T) {
	addrs := []netip.Addr{
		addr("1.2.3.4"), addr("1.2.3.5"), addr("10.0.0.1"), addr("255.255.255.255"),
		addr("::"), addr("::1"), addr("fe80::1"), addr("2001:db8::1"), addr("::ffff:1.2.3.4"),
	}
	for _, a := range addrs {
		assert.Equal(t, 0, CIDRDistance(a, a), a.String())
		for _, b := range addrs {
			assert.Equal(t, CIDRDistance(a, b), CIDRDistance(b, a), "%v %v", a, b)
			d := CIDRDistance(a, b)
			assert.GreaterOrEqual(t, d, 0)
			if a.Is4() && b.Is4() {
				assert.LessOrEqual(t, d, 32)
			} else {
				assert.LessOrEqual(t, d, 128)
			}
		}
	}
}

func TestAddrFromIP(t *testing.T) {
	assert.True(t, AddrFromIP(net.ParseIP("192.168.1.1")).Is4())
	assert.True(t, AddrFromIP(net.IPv4(10, 0, 0, 1).To16()).Is4())
	assert.True(t, AddrFromIP(net.ParseIP("fe80::1")).Is6())
	assert.False(t, AddrFromIP(nil).IsValid())
}
