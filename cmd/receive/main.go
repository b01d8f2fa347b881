package main

import (
	"flag"
	"log"
	"projekt/beacon/cmd/base"
)

func init() {
	log.SetFlags(log.Ltime)
}

func main() {
	group := flag.String("group", base.Group, "multicast group (address and port)")
	v6 := flag.Bool("6", false, "use the IPv6 group unless -group is set")
	loopback := flag.Bool("loopback", true, "receive datagrams sent from this host")
	metrics := flag.String("metrics", "", "address to serve prometheus metrics on")
	flag.Parse()

	if *v6 && *group == base.Group {
		*group = base.GroupV6
	}
	endpoint := base.ParseGroup(*group)
	r, done := base.StartReactor()
	socket := base.Open(r, endpoint, base.Printer(), *loopback, true)
	base.ServeMetrics(*metrics, socket)

	log.Printf("listening on %v...\n", endpoint)
	<-done
	base.Close(r, socket, done)
	stats := socket.Stats()
	log.Printf("received %v datagrams\n", stats.Received)
}
