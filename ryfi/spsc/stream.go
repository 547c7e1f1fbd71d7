// Package spsc implements the generic single-producer/single-consumer
// double-buffered stream used throughout the pipeline and device
// layers, per spec §7's "Double-buffered streams" entry.
package spsc

/*------------------------------------------------------------------
 *
 * Description:	Hand-built from sync.Mutex/sync.Cond, the same blocking
 *		producer/consumer shape as the teacher's tq.go transmit
 *		queue and queue.go's PacketQueue, generalized from a
 *		variable-length item queue to a fixed-capacity double
 *		buffer so a producer can fill one buffer while the
 *		consumer drains the other -- the shape §7 requires for
 *		pulse-shaping timing, where polling would disturb output
 *		cadence. Deliberately not built on channels or any other
 *		off-the-shelf buffering primitive. Lives in its own leaf
 *		package so both the top-level pipeline and the device
 *		layer can share one implementation without an import
 *		cycle between them.
 *
 *------------------------------------------------------------------*/

import "sync"

// Stream is a generic SPSC double buffer of capacity-length slots.
// Exactly one goroutine may call the Write* methods and exactly one may
// call the Read* methods; both may call the Stop*/Clear* methods.
type Stream[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond

	capacity int
	bufs     [2][]T

	writeIdx int // buffer currently owned by the writer.

	readIdx int // buffer currently owned by the reader, or -1 if none published.
	readLen int
	readPos int

	readStopped  bool
	writeStopped bool
}

// NewStream creates a Stream with two capacity-length buffers.
func NewStream[T any](capacity int) *Stream[T] {
	s := &Stream[T]{capacity: capacity, readIdx: -1}
	s.bufs[0] = make([]T, capacity)
	s.bufs[1] = make([]T, capacity)
	s.cond = sync.NewCond(&s.mu)

	return s
}

// WriteBuf returns the full capacity-length buffer currently owned by
// the writer. The writer fills some prefix of it and calls Swap to
// publish that prefix to the reader.
func (s *Stream[T]) WriteBuf() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bufs[s.writeIdx]
}

// Swap publishes the first count elements of the current write buffer
// to the reader and blocks until the reader has consumed the
// previously-published buffer (if any). Returns false if the writer was
// stopped while waiting.
func (s *Stream[T]) Swap(count int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.readIdx != -1 && !s.writeStopped {
		s.cond.Wait()
	}

	if s.writeStopped {
		return false
	}

	s.readIdx = s.writeIdx
	s.readLen = count
	s.readPos = 0
	s.writeIdx = 1 - s.writeIdx

	s.cond.Broadcast()

	return true
}

// ReadBuf blocks until a buffer has been published (or the stream is
// stopped), then returns the unread remainder of it. A zero-length
// result with ok=false means the stream was stopped with nothing left
// to read.
func (s *Stream[T]) ReadBuf() (buf []T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.readIdx == -1 && !s.readStopped {
		s.cond.Wait()
	}

	if s.readIdx == -1 {
		return nil, false
	}

	return s.bufs[s.readIdx][s.readPos:s.readLen], true
}

// Read pops a single element the way ReadBuf does for a whole slice.
func (s *Stream[T]) Read() (item T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.readIdx == -1 && !s.readStopped {
		s.cond.Wait()
	}

	if s.readIdx == -1 {
		var zero T

		return zero, false
	}

	item = s.bufs[s.readIdx][s.readPos]
	s.readPos++

	if s.readPos >= s.readLen {
		s.readIdx = -1
		s.cond.Broadcast()
	}

	return item, true
}

// Flush discards the remainder of the currently published buffer,
// returning it to the writer whether or not the reader consumed all of
// it.
func (s *Stream[T]) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readIdx = -1
	s.cond.Broadcast()
}

// StopReader unblocks any goroutine waiting in ReadBuf/Read.
func (s *Stream[T]) StopReader() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readStopped = true
	s.cond.Broadcast()
}

// StopWriter unblocks any goroutine waiting in Swap.
func (s *Stream[T]) StopWriter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeStopped = true
	s.cond.Broadcast()
}

// ClearReadStop resets the reader-stopped flag, allowing the stream to
// be reused.
func (s *Stream[T]) ClearReadStop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readStopped = false
}

// ClearWriteStop resets the writer-stopped flag, allowing the stream to
// be reused.
func (s *Stream[T]) ClearWriteStop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeStopped = false
}
