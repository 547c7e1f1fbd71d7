package device

/*------------------------------------------------------------------
 *
 * Purpose:	Raw serial CAT transport for rigs addressed by a plain
 *		command string rather than full Hamlib, per the DOMAIN
 *		STACK's pkg/term entry.
 *
 * Description:	Adapts the teacher's serial_port.go (term.Open/SetSpeed/
 *		Write/Close) into a small CAT command sender: open the
 *		port once at construction, then SetFrequencyHz
 *		formats and writes a single command line per frequency
 *		change. RawMode and the fixed baud table are carried over
 *		unchanged from the teacher; only the framing (a CAT command
 *		string rather than raw KISS/AX.25 bytes) changes.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/pkg/term"
)

// CATFormat renders a frequency (in Hz) as the command string written to
// the serial port. Different rigs expect different CAT dialects; RyFi
// ships one, matching the simple single-line form many CAT-over-serial
// rigs accept.
type CATFormat func(hz float64) string

// KenwoodStyleFreq formats a frequency the way Kenwood-derived CAT
// dialects expect: "FAnnnnnnnnnnn;" for an 11-digit Hz value.
func KenwoodStyleFreq(hz float64) string {
	return fmt.Sprintf("FA%011d;", int64(hz))
}

// SerialCAT is a single serial-port CAT connection, opened once and
// reused across SetFrequencyHz calls.
type SerialCAT struct {
	port   *term.Term
	format CATFormat
}

// OpenSerialCAT opens devicename at baud and returns a SerialCAT ready
// to accept frequency commands formatted by format.
func OpenSerialCAT(devicename string, baud int, format CATFormat) (*SerialCAT, error) {
	t, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("opening CAT serial port %s: %w", devicename, err)
	}

	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		if err := t.SetSpeed(baud); err != nil {
			t.Close()

			return nil, fmt.Errorf("setting CAT serial speed: %w", err)
		}
	default:
		t.Close()

		return nil, fmt.Errorf("unsupported CAT serial speed %d", baud)
	}

	return &SerialCAT{port: t, format: format}, nil
}

// SetFrequencyHz writes one CAT command to retune the rig.
func (s *SerialCAT) SetFrequencyHz(hz float64) error {
	cmd := s.format(hz)

	n, err := s.port.Write([]byte(cmd))
	if err != nil {
		return fmt.Errorf("writing CAT command %q: %w", cmd, err)
	}

	if n != len(cmd) {
		return fmt.Errorf("short write sending CAT command %q: wrote %d of %d bytes", cmd, n, len(cmd))
	}

	return nil
}

// Close releases the serial port.
func (s *SerialCAT) Close() error {
	s.port.Close()

	return nil
}
