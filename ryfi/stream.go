package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Generic single-producer/single-consumer double-buffered
 *		stream, per §7's "Double-buffered streams" entry.
 *
 * Description:	The implementation lives in ryfi/spsc so that the device
 *		layer can share it without importing this package (which
 *		would cycle back through pipeline.go's import of device).
 *		Stream is a true generic type alias, so every spsc.Stream
 *		method is callable directly as a Stream method here.
 *
 *------------------------------------------------------------------*/

import "github.com/ryzerth/ryfi/ryfi/spsc"

// Stream is a generic SPSC double buffer of capacity-length slots.
// Exactly one goroutine may call the Write* methods and exactly one may
// call the Read* methods; both may call the Stop*/Clear* methods.
type Stream[T any] = spsc.Stream[T]

// NewStream creates a Stream with two capacity-length buffers.
func NewStream[T any](capacity int) *Stream[T] {
	return spsc.NewStream[T](capacity)
}
