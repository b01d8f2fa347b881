package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"projekt/beacon/cmd/base"
	"projekt/beacon/lib/network"
	"strings"
	"time"
)

func init() {
	log.SetFlags(log.Ltime)
}

func main() {
	group := flag.String("group", base.Group, "multicast group (address and port)")
	v6 := flag.Bool("6", false, "use the IPv6 group unless -group is set")
	interval := flag.Duration("interval", 5*time.Second, "time between announcements")
	count := flag.Int("count", 0, "number of announcements, 0 sends until interrupted")
	loopback := flag.Bool("loopback", true, "deliver announcements to this host as well")
	join := flag.Bool("join", false, "join the group and print what is received")
	metrics := flag.String("metrics", "", "address to serve prometheus metrics on")
	flag.Parse()

	if *v6 && *group == base.Group {
		*group = base.GroupV6
	}
	endpoint := base.ParseGroup(*group)
	if *interval <= 0 {
		log.Fatalln("interval must be positive")
	}

	payload := []byte(strings.Join(flag.Args(), " "))
	if flag.NArg() == 0 {
		hostname, err := os.Hostname()
		if err != nil {
			log.Fatalln("failed to retrieve hostname:", err)
		}
		local := network.GuessLocalAddress(network.NewTracker())
		payload = []byte(fmt.Sprintf("%s %v", hostname, local))
	}

	r, done := base.StartReactor()
	socket := base.Open(r, endpoint, base.Printer(), *loopback, *join)
	defer base.Close(r, socket, done)
	base.ServeMetrics(*metrics, socket)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for sent := 0; *count == 0 || sent < *count; sent++ {
		if !r.Post(func() { socket.Send(payload) }) {
			return
		}
		log.Printf("-> %v: %s\n", endpoint, payload)
		if sent+1 == *count {
			break
		}
		select {
		case <-ticker.C:
		case <-done:
			return
		}
	}
}
