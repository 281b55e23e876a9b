package channel

import (
	"log"
	"slices"
	"sync"
	"time"
)

// DefaultDelay is the quiescence window before a pending message is sent.
const DefaultDelay = 250 * time.Millisecond

type pending struct {
	msg   Message
	timer *time.Timer
	gen   uint64
}

// Debouncer coalesces bursts of messages. Each message type has at most
// one pending message; scheduling another replaces the payload and
// restarts the window.
type Debouncer struct {
	sink   Sink
	delay  time.Duration
	logger *log.Logger

	mu      sync.Mutex
	pending map[string]*pending
	gen     uint64
	closed  bool

	sendMu sync.Mutex
}

// NewDebouncer returns a debouncer forwarding to sink. A nil logger
// discards send failures.
func NewDebouncer(sink Sink, delay time.Duration, logger *log.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		sink:    sink,
		delay:   delay,
		logger:  logger,
		pending: make(map[string]*pending),
	}
}

// Schedule queues m, replacing any pending message of the same type. A
// pending mapChanged that carries the sprite sheet keeps carrying it, with
// the newest sheet scheduled, until it has been sent.
func (d *Debouncer) Schedule(m Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if p, ok := d.pending[m.Type]; ok {
		p.timer.Stop()
		if m.Type == TypeMap && m.Gfx == nil {
			m.Gfx = p.msg.Gfx
		}
	}
	if m.Gfx != nil && m.Type != TypeMap {
		if p, ok := d.pending[TypeMap]; ok && p.msg.Gfx != nil {
			p.msg.Gfx = m.Gfx
		}
	}
	d.gen++
	gen := d.gen
	typ := m.Type
	d.pending[typ] = &pending{
		msg:   m,
		gen:   gen,
		timer: time.AfterFunc(d.delay, func() { d.fire(typ, gen) }),
	}
}

// Pending reports how many message types are waiting.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Debouncer) fire(typ string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[typ]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, typ)
	d.mu.Unlock()
	d.send(p.msg)
}

func (d *Debouncer) send(m Message) {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	if err := d.sink.Send(m); err != nil && d.logger != nil {
		d.logger.Printf("channel: send %s: %v", m.Type, err)
	}
}

// Flush sends every pending message now, in scheduling order.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	list := make([]*pending, 0, len(d.pending))
	for typ, p := range d.pending {
		p.timer.Stop()
		list = append(list, p)
		delete(d.pending, typ)
	}
	d.mu.Unlock()

	slices.SortFunc(list, func(a, b *pending) int {
		if a.gen < b.gen {
			return -1
		}
		if a.gen > b.gen {
			return 1
		}
		return 0
	})
	for _, p := range list {
		d.send(p.msg)
	}
}

// Close flushes pending messages and drops anything scheduled afterwards.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Flush()
}
