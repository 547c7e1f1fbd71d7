// Package device implements the radio device abstraction: a process-wide
// driver registry, refcounted device contexts, and the RX/TX worker
// threads that bridge hardware sample formats onto the DSP streams, per
// spec §4.12/§4.13.
package device

import (
	"context"
)

// Type distinguishes which half of a physical device an Info describes.
type Type int

const (
	TypeReceiver Type = iota
	TypeTransmitter
)

func (t Type) String() string {
	if t == TypeTransmitter {
		return "transmitter"
	}

	return "receiver"
}

// Info describes one enumerable device as reported by Driver.List.
type Info struct {
	Driver     string
	Identifier string
	Type       Type
	Label      string // human-readable description, e.g. "bladeRF 2.0 micro #0".
}

// Receiver streams demodulated soft samples out of a piece of hardware.
// ReadSamples fills buf and returns the number of samples read. RXWorker
// bounds each call with a context deadline and treats an error wrapping
// context.DeadlineExceeded as a timeout (not fatal: it loops and retries
// per spec §5).
type Receiver interface {
	ReadSamples(ctx context.Context, buf []float32) (n int, err error)
	SetFrequencyHz(hz float64) error
	Close() error
}

// Transmitter accepts shaped samples for a piece of hardware to radiate.
type Transmitter interface {
	WriteSamples(ctx context.Context, buf []float32) error
	SetFrequencyHz(hz float64) error
	Close() error
}

// Driver is one radio backend (a vendor SDR, a sound card, a CAT-controlled
// rig). A Driver is registered once at process start and is safe for
// concurrent use by multiple device contexts thereafter.
type Driver interface {
	Name() string
	List() ([]Info, error)
	OpenRX(identifier string, sampleRateHz float64) (Receiver, error)
	OpenTX(identifier string, sampleRateHz float64) (Transmitter, error)
}
