package device

/*------------------------------------------------------------------
 *
 * Purpose:	RX/TX worker goroutines bridging hardware sample buffers
 *		onto the DSP pipeline's streams, per §4.12.
 *
 * Description:	Receiver and Transmitter exchange float32 samples, the
 *		pipeline's working format, so both workers pass buffers
 *		through unconverted. int16ToFloat32 converts an int16
 *		hardware buffer into that format with a 1/2048 scale
 *		factor, matching the teacher's audio.go ADC normalization.
 *		Every hardware call is bounded by hardwareTimeout; a
 *		timeout (context.DeadlineExceeded) is not fatal, matching
 *		§5's "Timeouts" rule -- the worker logs and loops rather
 *		than tearing the link down.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ryzerth/ryfi/ryfi/spsc"
)

// hardwareTimeout bounds every ReadSamples/WriteSamples call.
const hardwareTimeout = 3500 * time.Millisecond

// sampleScale converts between the int16 range hardware drivers use and
// the roughly unit-amplitude float32 range the DSP pipeline expects.
const sampleScale = 1.0 / 2048.0

// int16ToFloat32 converts a raw hardware sample buffer into the
// pipeline's working format.
func int16ToFloat32(in []int16, out []float32) []float32 {
	out = out[:0]
	for _, s := range in {
		out = append(out, float32(s)*sampleScale)
	}

	return out
}

// RXWorker pulls samples from a Receiver and publishes them onto a
// spsc.Stream[float32] for the demodulation stages to consume.
type RXWorker struct {
	rx     Receiver
	out    *spsc.Stream[float32]
	log    *log.Logger
	hwBuf  []int16
	fltBuf []float32
}

// NewRXWorker creates a worker reading up to bufLen float32 samples per
// hardware call and publishing them onto out.
func NewRXWorker(rx Receiver, out *spsc.Stream[float32], bufLen int) *RXWorker {
	return &RXWorker{
		rx:     rx,
		out:    out,
		log:    log.Default().WithPrefix("device.rx"),
		hwBuf:  make([]int16, bufLen),
		fltBuf: make([]float32, 0, bufLen),
	}
}

// Run reads from the hardware until ctx is cancelled or the output
// stream's writer is stopped. Hardware timeouts are logged and retried;
// any other error stops the worker.
func (w *RXWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		callCtx, cancel := context.WithTimeout(ctx, hardwareTimeout)
		n, err := w.rx.ReadSamples(callCtx, w.fltBuf[:cap(w.fltBuf)])
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				w.log.Warn("hardware read timeout, retrying")

				continue
			}

			return err
		}

		w.fltBuf = w.fltBuf[:n]

		dst := w.out.WriteBuf()
		count := copy(dst, w.fltBuf)

		if !w.out.Swap(count) {
			return nil
		}
	}
}

// TXWorker drains a spsc.Stream[float32] of shaped samples and writes
// them out to a Transmitter. Transmitter.WriteSamples takes float32, so
// buffers are written as they are, with no format conversion or clamping.
type TXWorker struct {
	tx  Transmitter
	in  *spsc.Stream[float32]
	log *log.Logger
}

// NewTXWorker creates a worker reading shaped samples from in and
// writing them to tx.
func NewTXWorker(tx Transmitter, in *spsc.Stream[float32]) *TXWorker {
	return &TXWorker{
		tx:  tx,
		in:  in,
		log: log.Default().WithPrefix("device.tx"),
	}
}

// Run drains the input stream until it is stopped or ctx is cancelled.
func (w *TXWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		buf, ok := w.in.ReadBuf()
		if !ok {
			return nil
		}

		callCtx, cancel := context.WithTimeout(ctx, hardwareTimeout)
		err := w.tx.WriteSamples(callCtx, buf)
		cancel()

		w.in.Flush()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				w.log.Warn("hardware write timeout, retrying")

				continue
			}

			return err
		}
	}
}
