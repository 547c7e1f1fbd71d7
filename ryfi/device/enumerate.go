package device

/*------------------------------------------------------------------
 *
 * Purpose:	udev-backed USB serial/sound device enumeration, per the
 *		DOMAIN STACK's jochenvg/go-udev entry.
 *
 * Description:	Drivers addressed by device-node path (SerialCAT, and
 *		any sound card exposed as a raw ALSA node rather than
 *		through portaudio) need a way to find which /dev nodes
 *		correspond to an attached radio's USB interface without
 *		the caller hardcoding a path. udev.Enumerate mirrors what
 *		the "udevadm info" / "udevadm trigger" tools the teacher's
 *		build docs point installers at actually query: this walks
 *		the same tty and sound subsystems and reports device nodes
 *		plus the handful of USB properties (vendor/product ID,
 *		serial) useful for matching a specific radio.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/jochenvg/go-udev"
)

// USBDevice describes one enumerated tty or sound device node and the
// USB identity of the interface it belongs to, when known.
type USBDevice struct {
	DevNode   string
	Subsystem string
	VendorID  string
	ProductID string
	Serial    string
}

// EnumerateUSBDevices lists tty and sound device nodes currently present
// under udev, for matching against a configured driver selector.
func EnumerateUSBDevices() ([]USBDevice, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()

	if err := e.AddMatchSubsystem("tty"); err != nil {
		return nil, fmt.Errorf("udev: matching tty subsystem: %w", err)
	}

	if err := e.AddMatchSubsystem("sound"); err != nil {
		return nil, fmt.Errorf("udev: matching sound subsystem: %w", err)
	}

	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("udev: enumerating devices: %w", err)
	}

	var out []USBDevice

	for _, d := range devices {
		node := d.Devnode()
		if node == "" {
			continue
		}

		usb := d.ParentWithSubsystemDevtype("usb", "usb_device")

		dev := USBDevice{DevNode: node, Subsystem: d.Subsystem()}

		if usb != nil {
			dev.VendorID = usb.PropertyValue("ID_VENDOR_ID")
			dev.ProductID = usb.PropertyValue("ID_MODEL_ID")
			dev.Serial = usb.PropertyValue("ID_SERIAL_SHORT")
		}

		out = append(out, dev)
	}

	return out, nil
}
