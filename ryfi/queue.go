package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Bounded FIFO of packets awaiting transmission.
 *
 * Description:	Producers call Push and go on their way, unconcerned
 *		about when the packet will actually be framed. The TX
 *		worker blocks in Pop until a packet is available or the
 *		queue is closed.
 *
 *		Unlike the teacher's multi-priority transmit queue (high
 *		priority for digipeated traffic, low priority with
 *		persistence/slot-time backoff), RyFi carries a single
 *		best-effort FIFO: there is no digipeating and no
 *		collision-avoidance layer to prioritize around.
 *
 *------------------------------------------------------------------*/

import (
	"sync"

	"github.com/charmbracelet/log"
)

// MaxQueueSize is the bound on the number of packets held awaiting
// transmission. Overflow drops the newest packet.
const MaxQueueSize = 32

// PacketQueue is a bounded, closable FIFO of packets, guarded by a mutex
// and a condition variable per §4.1.
type PacketQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Packet
	closed bool

	dropped uint64 // count of QueueOverflow events, for tests/metrics.

	log *log.Logger
}

// NewPacketQueue creates an empty queue.
func NewPacketQueue() *PacketQueue {
	q := &PacketQueue{
		items: make([]Packet, 0, MaxQueueSize),
		log:   log.Default().WithPrefix("queue"),
	}
	q.cond = sync.NewCond(&q.mu)

	return q
}

// Push appends a packet to the tail of the queue. It returns false, and
// the packet is dropped, if the queue is already at MaxQueueSize or has
// been closed.
func (q *PacketQueue) Push(p Packet) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	if len(q.items) >= MaxQueueSize {
		q.dropped++
		q.log.Warn("queue full, dropping packet", "size", MaxQueueSize)

		return false
	}

	q.items = append(q.items, p)
	q.cond.Signal()

	return true
}

// Pop blocks until a packet is available or the queue is closed. ok is
// false, with a zero Packet, exactly when the queue closed with nothing
// left to drain -- the TX worker treats that as a clean exit signal.
func (q *PacketQueue) Pop() (p Packet, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return Packet{}, false
	}

	p = q.items[0]
	q.items = q.items[1:]

	return p, true
}

// Close marks the queue closed and wakes any blocked Pop. Already-queued
// packets are still delivered by subsequent Pop calls; once drained,
// Pop starts returning ok=false.
func (q *PacketQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Len reports the number of packets currently queued.
func (q *PacketQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// Dropped reports the number of packets lost to QueueOverflow since
// creation.
func (q *PacketQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.dropped
}
