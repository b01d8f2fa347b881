package beacon

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats counts what happened to the sockets of a BroadcastSocket.
type Stats struct {
	// SocketsOpened is the number of sockets that were opened successfully.
	SocketsOpened uint64
	// SocketsFailed is the number of sockets that could not be opened.
	SocketsFailed uint64
	Received      uint64
	Sent          uint64
	SendErrors    uint64
}

type counters struct {
	opened     atomic.Uint64
	failed     atomic.Uint64
	received   atomic.Uint64
	sent       atomic.Uint64
	sendErrors atomic.Uint64
}

// Stats returns a snapshot of the counters.
// Unlike the other methods it may be called from any goroutine.
func (b *BroadcastSocket) Stats() Stats {
	return Stats{
		SocketsOpened: b.stats.opened.Load(),
		SocketsFailed: b.stats.failed.Load(),
		Received:      b.stats.received.Load(),
		Sent:          b.stats.sent.Load(),
		SendErrors:    b.stats.sendErrors.Load(),
	}
}

// Collector exports the Stats of a BroadcastSocket as prometheus metrics.
type Collector struct {
	socket *BroadcastSocket

	opened     *prometheus.Desc
	failed     *prometheus.Desc
	received   *prometheus.Desc
	sent       *prometheus.Desc
	sendErrors *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(socket *BroadcastSocket) *Collector {
	labels := prometheus.Labels{"group": socket.Endpoint().String()}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("beacon", "", name), help, nil, labels)
	}
	return &Collector{
		socket:     socket,
		opened:     desc("sockets_opened_total", "Sockets that were opened successfully."),
		failed:     desc("sockets_failed_total", "Sockets that could not be opened."),
		received:   desc("datagrams_received_total", "Datagrams passed to the receive handler."),
		sent:       desc("datagrams_sent_total", "Datagrams sent to the group."),
		sendErrors: desc("send_errors_total", "Datagrams that could not be sent."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.opened
	ch <- c.failed
	ch <- c.received
	ch <- c.sent
	ch <- c.sendErrors
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.socket.Stats()
	counter := func(desc *prometheus.Desc, value uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value))
	}
	counter(c.opened, stats.SocketsOpened)
	counter(c.failed, stats.SocketsFailed)
	counter(c.received, stats.Received)
	counter(c.sent, stats.Sent)
	counter(c.sendErrors, stats.SendErrors)
}
