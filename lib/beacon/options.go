package beacon

import (
	"io"
	"log"
	"projekt/beacon/lib/network"
)

// BufferSize is the default size of the receive buffer of each socket.
// It fits the largest possible UDP payload.
const BufferSize = 1 << 16

type config struct {
	tracker    network.Tracker
	info       *log.Logger
	bufferSize int
}

type Option func(*config)

// WithTracker sets the source of the interfaces sockets are opened on.
func WithTracker(tracker network.Tracker) Option {
	return func(c *config) {
		c.tracker = tracker
	}
}

// WithLogger sets the logger that socket failures are reported to.
// A nil logger discards them.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = log.New(io.Discard, "", 0)
		}
		c.info = logger
	}
}

// WithBufferSize sets the receive buffer size of each socket.
// Datagrams larger than the buffer are truncated.
func WithBufferSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		tracker:    nil,
		info:       log.New(log.Writer(), "BEACON ", log.Flags()|log.Lmsgprefix),
		bufferSize: BufferSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracker == nil {
		c.tracker = network.NewTracker()
	}
	return c
}
