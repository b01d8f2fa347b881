package base

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"projekt/beacon/lib/beacon"
	"projekt/beacon/lib/network"
	"projekt/beacon/lib/reactor"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Group is the local service discovery group of BitTorrent clients.
	Group   = "239.192.152.143:6771"
	GroupV6 = "[ff15::efc0:988f]:6771"
)

// ParseGroup parses a multicast endpoint and exits if it is not one.
func ParseGroup(s string) netip.AddrPort {
	endpoint, err := netip.ParseAddrPort(s)
	if err != nil {
		log.Fatalf("failed to parse group \"%s\": %v\n", s, err)
	}
	if !network.IsMulticast(endpoint.Addr()) {
		log.Fatalf("%v is not a multicast address\n", endpoint.Addr())
	}
	return endpoint
}

// StartReactor runs a reactor until the process is interrupted.
// The returned channel is closed once it has stopped.
func StartReactor() (*reactor.Reactor, <-chan struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	r := reactor.New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer stop()
		err := r.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Println("reactor stopped:", err)
		}
	}()
	return r, done
}

// ServeMetrics exposes the counters of the socket over HTTP at addr.
// Nothing is served if addr is empty.
func ServeMetrics(addr string, socket *beacon.BroadcastSocket) {
	if addr == "" {
		return
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(beacon.NewCollector(socket))
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		err := http.ListenAndServe(addr, mux)
		if err != nil {
			log.Println("failed to serve metrics:", err)
		}
	}()
	log.Printf("serving metrics on %v/metrics\n", addr)
}

// Open creates a BroadcastSocket on the reactor goroutine.
func Open(r *reactor.Reactor, endpoint netip.AddrPort, handler beacon.ReceiveHandler,
	loopback bool, join bool) *beacon.BroadcastSocket {
	var socket *beacon.BroadcastSocket
	err := r.Call(context.Background(), func() {
		socket = beacon.NewBroadcastSocket(r, endpoint, handler, loopback, join)
	})
	if err != nil {
		log.Fatalln("failed to open sockets:", err)
	}
	stats := socket.Stats()
	log.Printf("%v: %v sockets open, %v failed\n", endpoint, stats.SocketsOpened, stats.SocketsFailed)
	return socket
}

// Close closes the socket on the reactor, stops it
// and waits until done is closed.
func Close(r *reactor.Reactor, socket *beacon.BroadcastSocket, done <-chan struct{}) {
	if !r.Post(func() {
		socket.Close()
		r.Stop()
	}) {
		// already stopped, nothing runs on the reactor anymore
		socket.Close()
	}
	<-done
}
