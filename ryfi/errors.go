package ryfi

import "fmt"

// ErrKind classifies an Error the way §7 of the design enumerates them:
// some kinds are fatal at startup, the rest are recovered locally and the
// link keeps running.
type ErrKind int

const (
	// FatalInit covers SDR open, TUN open, and invalid driver name failures.
	// Startup aborts with a nonzero exit.
	FatalInit ErrKind = iota

	// TransientIO is an SDR read/write timeout. Logged, the worker loops
	// and retries.
	TransientIO

	// FrameCorrupt means RS decoding failed on at least one block of a
	// frame. The in-progress reassembly is dropped and parsing resumes
	// at the next frame's counter.
	FrameCorrupt

	// QueueOverflow means the TX packet queue was full; the newest
	// packet was dropped.
	QueueOverflow

	// ProtocolDesync means a frame's counter field was inconsistent with
	// the reassembler's in-progress state.
	ProtocolDesync

	// Cancelled is the normal shutdown path: a stream was stopped and
	// the worker that owns it is exiting cleanly.
	Cancelled
)

func (k ErrKind) String() string {
	switch k {
	case FatalInit:
		return "FatalInit"
	case TransientIO:
		return "TransientIO"
	case FrameCorrupt:
		return "FrameCorrupt"
	case QueueOverflow:
		return "QueueOverflow"
	case ProtocolDesync:
		return "ProtocolDesync"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error wraps a message with an ErrKind so callers can classify failures
// with errors.As instead of string matching.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether the link cannot continue after this error and
// startup/the owning goroutine must abort.
func (e *Error) Fatal() bool {
	return e.Kind == FatalInit
}

func newErr(kind ErrKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
