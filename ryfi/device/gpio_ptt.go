package device

/*------------------------------------------------------------------
 *
 * Purpose:	GPIO-keyed PTT control, per the DOMAIN STACK's
 *		warthog618/go-gpiocdev entry.
 *
 * Description:	The teacher's ptt.go keys PTT the old sysfs way
 *		(/sys/class/gpio/export, .../gpioNN/direction,
 *		.../gpioNN/value) and notes in its own comments that the
 *		"gpiod" character-device form is the replacement where
 *		sysfs gpio isn't supported. gpiocdev is that replacement's
 *		Go binding: OpenGPIOPTT requests a single output line from
 *		a chip (e.g. "gpiochip0") and GPIOPTT.Key/Unkey set its
 *		value, the same
 *		two states the sysfs value-file write expressed, with the
 *		same invert option ptt.go's export_gpio took as a parameter.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOPTT keys a single GPIO output line to key/unkey a transmitter.
type GPIOPTT struct {
	line   *gpiocdev.Line
	invert bool
}

// OpenGPIOPTT requests lineOffset on chipName as an output, initially
// unkeyed. invert reverses high/low the way ptt.go's invert flag does.
func OpenGPIOPTT(chipName string, lineOffset int, invert bool) (*GPIOPTT, error) {
	initial := pttLineValue(false, invert)

	line, err := gpiocdev.RequestLine(chipName, lineOffset,
		gpiocdev.AsOutput(initial), gpiocdev.WithConsumer("ryfi-ptt"))
	if err != nil {
		return nil, fmt.Errorf("gpio ptt: requesting %s line %d: %w", chipName, lineOffset, err)
	}

	return &GPIOPTT{line: line, invert: invert}, nil
}

// pttLineValue maps a logical PTT state to the GPIO line level, honoring
// invert the same way for the initial request value and every later set.
func pttLineValue(asserted, invert bool) int {
	if asserted != invert {
		return 1
	}

	return 0
}

// ParseGPIOPTTSpec parses a "chip:line[:invert]" --ptt-gpio flag value.
// The optional third field, "invert" (case-insensitive), reverses line
// polarity the way ptt.go's invert flag did; any other value is rejected.
func ParseGPIOPTTSpec(spec string) (chip string, line int, invert bool, err error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return "", 0, false, fmt.Errorf("gpio ptt: spec %q must be chip:line[:invert]", spec)
	}

	chip = parts[0]

	line, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, false, fmt.Errorf("gpio ptt: invalid line %q: %w", parts[1], err)
	}

	if len(parts) == 3 {
		if !strings.EqualFold(parts[2], "invert") {
			return "", 0, false, fmt.Errorf("gpio ptt: unknown spec modifier %q", parts[2])
		}

		invert = true
	}

	return chip, line, invert, nil
}

// Key asserts PTT (keys the transmitter).
func (p *GPIOPTT) Key() error {
	return p.set(true)
}

// Unkey releases PTT.
func (p *GPIOPTT) Unkey() error {
	return p.set(false)
}

func (p *GPIOPTT) set(asserted bool) error {
	if err := p.line.SetValue(pttLineValue(asserted, p.invert)); err != nil {
		return fmt.Errorf("gpio ptt: setting line value: %w", err)
	}

	return nil
}

// Close releases the GPIO line, first unkeying it.
func (p *GPIOPTT) Close() error {
	_ = p.Unkey()

	return p.line.Close()
}
