package beacon

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/netip"
	"projekt/beacon/lib/network"
	"projekt/beacon/lib/reactor"
	"sync"
)

// maxHops is the multicast TTL or hop limit of the group socket.
const maxHops = 255

// BroadcastSocket sends and receives datagrams of a multicast group
// on every usable network interface of this host.
//
// Delivery is best effort. Sockets that fail to open are left out,
// sockets that fail to receive stop receiving,
// and failed sends are dropped. None of this is reported to the caller,
// failures are only logged and counted in Stats.
//
// All sockets are driven by one reactor.Reactor.
// The receive handler runs on the reactor goroutine, and Send and Close
// must be called there as well, e.g. from within the handler,
// from a task passed to reactor.Reactor.Post or through reactor.Reactor.Call.
type BroadcastSocket struct {
	reactor   *reactor.Reactor
	endpoint  netip.AddrPort
	onReceive ReceiveHandler
	// sockets receive datagrams sent to the group.
	sockets []*socketEntry
	// unicastSockets are bound to one interface address each,
	// they send to the group and receive replies.
	unicastSockets []*socketEntry
	closed         bool
	info           *log.Logger
	stats          counters

	// pending counts sends that have not completed yet.
	pending sync.WaitGroup
}

var _ Beacon = (*BroadcastSocket)(nil)

// NewBroadcastSocket opens the sockets for the multicast group endpoint and starts receiving.
//
// If joinGroup is set, one socket is bound to the endpoint port, joins the group
// and receives everything that is sent to it. loopback controls whether datagrams
// sent from this host are delivered to group members on this host.
// In addition, one socket is bound to every interface address of the endpoint's
// address family, except for loopback and wildcard addresses.
//
// It panics with NotMulticast if the endpoint address is not a multicast address.
func NewBroadcastSocket(r *reactor.Reactor, endpoint netip.AddrPort, onReceive ReceiveHandler,
	loopback bool, joinGroup bool, opts ...Option) *BroadcastSocket {
	if !network.IsMulticast(endpoint.Addr()) {
		panic(NotMulticast)
	}
	c := newConfig(opts)
	b := &BroadcastSocket{
		reactor:   r,
		endpoint:  endpoint,
		onReceive: onReceive,
		info:      c.info,
	}

	present, err := c.tracker.Interfaces()
	if err != nil {
		b.info.Println("failed to enumerate all interfaces:", err)
	}

	v4 := endpoint.Addr().Is4()
	if joinGroup {
		wildcard := netip.IPv6Unspecified()
		if v4 {
			wildcard = netip.IPv4Unspecified()
		}
		b.openMulticastSocket(wildcard, present, loopback, c.bufferSize)
	}

	for i := range present {
		addr := present[i].Addr()
		// only multicast on compatible networks
		if addr.Is4() != v4 {
			continue
		}
		if !addr.IsValid() || network.IsLoopback(addr) || network.IsAny(addr) {
			continue
		}
		b.openUnicastSocket(addr, &present[i].Interface, loopback, c.bufferSize)
	}

	for _, s := range b.sockets {
		b.receive(s)
	}
	for _, s := range b.unicastSockets {
		b.receive(s)
	}
	return b
}

// Endpoint returns the multicast group this socket sends to.
func (b *BroadcastSocket) Endpoint() netip.AddrPort {
	return b.endpoint
}

func (b *BroadcastSocket) openMulticastSocket(addr netip.Addr, present []network.Net, loopback bool, bufferSize int) {
	v4 := addr.Is4()
	var conn *net.UDPConn
	var mc multicastConn
	err := sequential(
		func() (err error) {
			lc := net.ListenConfig{Control: reuseAddr}
			pc, err := lc.ListenPacket(context.Background(), udpNetwork(v4),
				netip.AddrPortFrom(addr, b.endpoint.Port()).String())
			if err != nil {
				return
			}
			conn = pc.(*net.UDPConn)
			mc = newMulticastConn(conn, v4)
			return
		},
		func() error {
			return b.joinGroup(mc, present, v4)
		},
		func() error {
			return mc.SetMulticastHops(maxHops)
		},
		func() error {
			return mc.SetMulticastLoopback(loopback)
		},
	)
	if err != nil {
		if conn != nil {
			_ = conn.Close()
		}
		b.failed("multicast socket", addr, err)
		return
	}
	b.stats.opened.Add(1)
	b.sockets = append(b.sockets, newSocketEntry(conn, bufferSize))
}

// joinGroup joins the group on every multicast capable interface of the address family.
// If that is not possible on any of them, the system picks the interface.
func (b *BroadcastSocket) joinGroup(mc multicastConn, present []network.Net, v4 bool) error {
	group := net.UDPAddrFromAddrPort(b.endpoint)
	joined := make(map[int]bool, len(present))
	for i := range present {
		n := &present[i]
		addr := n.Addr()
		if !addr.IsValid() || !n.IsUp() || !n.IsMulticast() || addr.Is4() != v4 || joined[n.Interface.Index] {
			continue
		}
		e1 := mc.JoinGroup(&n.Interface, group)
		if e1 != nil {
			b.info.Printf("failed to join %v on %v: %v", b.endpoint.Addr(), n.Interface.Name, e1)
			continue
		}
		joined[n.Interface.Index] = true
	}
	if len(joined) > 0 {
		return nil
	}
	return mc.JoinGroup(nil, group)
}

func (b *BroadcastSocket) openUnicastSocket(addr netip.Addr, in *net.Interface, loopback bool, bufferSize int) {
	conn, err := net.ListenUDP(udpNetwork(addr.Is4()), net.UDPAddrFromAddrPort(netip.AddrPortFrom(addr, 0)))
	if err != nil {
		b.failed("unicast socket", addr, err)
		return
	}
	// Binding does not select the interface multicast datagrams leave through.
	// The socket stays usable without these options.
	mc := newMulticastConn(conn, addr.Is4())
	if in.Index > 0 {
		if e1 := mc.SetMulticastInterface(in); e1 != nil {
			b.info.Printf("failed to set multicast interface %v for %v: %v", in.Name, addr, e1)
		}
	}
	if e1 := mc.SetMulticastLoopback(loopback); e1 != nil {
		b.info.Printf("failed to set multicast loopback for %v: %v", addr, e1)
	}
	b.stats.opened.Add(1)
	b.unicastSockets = append(b.unicastSockets, newSocketEntry(conn, bufferSize))
}

func (b *BroadcastSocket) failed(kind string, addr netip.Addr, err error) {
	b.stats.failed.Add(1)
	b.info.Printf("failed to open %s on %v: %v", kind, addr, err)
}

// receive issues one receive on the socket.
// The completion is handled on the reactor.
func (b *BroadcastSocket) receive(s *socketEntry) {
	s.state = Receiving
	conn, buffer := s.conn, s.buffer
	go func() {
		n, remote, err := conn.ReadFromUDPAddrPort(buffer)
		b.reactor.Post(func() {
			b.onReceiveComplete(s, remote, n, err)
		})
	}()
}

func (b *BroadcastSocket) onReceiveComplete(s *socketEntry, remote netip.AddrPort, n int, err error) {
	if s.state.Is(Closed) {
		return
	}
	if err != nil || n == 0 || b.onReceive == nil {
		s.state = Idle
		if err != nil {
			b.info.Printf("stopped receiving on %v: %v", s.conn.LocalAddr(), err)
		}
		return
	}
	if b.endpoint.Addr().Is4() {
		remote = netip.AddrPortFrom(remote.Addr().Unmap(), remote.Port())
	}
	s.remote = remote
	b.stats.received.Add(1)
	b.onReceive(s.remote, s.buffer[:n], n)
	// the handler may have closed the socket
	if s.state.Is(Closed) {
		return
	}
	b.receive(s)
}

// Send sends data to the group from every interface socket.
// The result of each send is discarded.
// data is copied and may be reused once Send returns.
func (b *BroadcastSocket) Send(data []byte) {
	if b.closed {
		return
	}
	payload := make([]byte, len(data))
	copy(payload, data)
	dst := b.endpoint
	for _, s := range b.unicastSockets {
		if s.state.Is(Closed) {
			continue
		}
		conn := s.conn
		b.pending.Add(1)
		go func() {
			defer b.pending.Done()
			_, err := conn.WriteToUDPAddrPort(payload, dst)
			if err != nil {
				b.stats.sendErrors.Add(1)
				return
			}
			b.stats.sent.Add(1)
		}()
	}
}

// Close waits for outstanding sends, closes all sockets
// and releases the receive handler.
// Receives that complete afterwards are dropped.
// Calling Close more than once has no effect.
func (b *BroadcastSocket) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.pending.Wait()
	closers := make([]func() error, 0, len(b.sockets)+len(b.unicastSockets))
	for _, list := range [][]*socketEntry{b.sockets, b.unicastSockets} {
		for _, s := range list {
			s.state = Closed
			closers = append(closers, s.conn.Close)
		}
	}
	if err := concurrent(closers...); err != nil {
		b.info.Println("failed to close socket:", err)
	}
	b.onReceive = nil
}

// LocalAddrs returns the addresses of all sockets that are not closed,
// group sockets first.
func (b *BroadcastSocket) LocalAddrs() []netip.AddrPort {
	addrs := make([]netip.AddrPort, 0, len(b.sockets)+len(b.unicastSockets))
	for _, list := range [][]*socketEntry{b.sockets, b.unicastSockets} {
		for _, s := range list {
			if s.state.Is(Closed) {
				continue
			}
			addrs = append(addrs, s.conn.LocalAddr().(*net.UDPAddr).AddrPort())
		}
	}
	return addrs
}

func (b *BroadcastSocket) String() string {
	return fmt.Sprintf("BroadcastSocket(%v, %d group, %d unicast)",
		b.endpoint, len(b.sockets), len(b.unicastSockets))
}
