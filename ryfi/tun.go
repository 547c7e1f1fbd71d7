package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Open and drive the host TUN interface, per §6's TUN
 *		interface entry.
 *
 * Description:	The teacher's ptt.go reaches golang.org/x/sys/unix for
 *		ioctls against a serial fd (TIOCMGET/TIOCMSET for RTS/DTR
 *		keying). TUN setup is the same shape of operation -- open a
 *		device node, then unix.IoctlSetInt/unix.IoctlSetIfreq-style
 *		calls configure it -- applied to /dev/net/tun's TUNSETIFF
 *		rather than a serial line's modem control lines.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MaxPacketBytes bounds a single TUN read/write, per §6.
const MaxPacketBytes = 65536

const (
	tunDevicePath = "/dev/net/tun"
	ifNameSize    = unix.IFNAMSIZ
)

// ifReq mirrors struct ifreq's layout for the TUNSETIFF ioctl: a 16-byte
// interface name followed by the flags field.
type ifReq struct {
	Name  [ifNameSize]byte
	Flags uint16
	_     [22]byte // pad to the kernel's sizeof(struct ifreq).
}

// TUN is an open point-to-point TUN interface carrying raw IP packets
// (no packet-info header, per §6).
type TUN struct {
	f    *os.File
	Name string
}

// OpenTUN opens name (or lets the kernel assign one, if name is empty)
// as a TUN device with IFF_NO_PI set, per §6's "L3 framing only" rule.
func OpenTUN(name string) (*TUN, error) {
	f, err := os.OpenFile(tunDevicePath, os.O_RDWR, 0)
	if err != nil {
		return nil, newErr(FatalInit, "opening "+tunDevicePath, err)
	}

	var req ifReq
	copy(req.Name[:], name)
	req.Flags = unix.IFF_TUN | unix.IFF_NO_PI

	if err := ioctlIfreq(f.Fd(), unix.TUNSETIFF, &req); err != nil {
		f.Close()

		return nil, newErr(FatalInit, "TUNSETIFF ioctl", err)
	}

	assigned := nullTerminated(req.Name[:])

	return &TUN{f: f, Name: assigned}, nil
}

func ioctlIfreq(fd uintptr, request uintptr, req *ifReq) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, request, uintptr(unsafe.Pointer(req)))
	if errno != 0 {
		return errno
	}

	return nil
}

// Recv reads one packet, up to MaxPacketBytes, per §6's recv semantics.
func (t *TUN) Recv(buf []byte) (int, error) {
	n, err := t.f.Read(buf)
	if err != nil {
		return 0, fmt.Errorf("tun recv: %w", err)
	}

	return n, nil
}

// Send writes one packet, per §6's send semantics.
func (t *TUN) Send(buf []byte) error {
	if _, err := t.f.Write(buf); err != nil {
		return fmt.Errorf("tun send: %w", err)
	}

	return nil
}

// Close releases the TUN file descriptor.
func (t *TUN) Close() error {
	return t.f.Close()
}

func nullTerminated(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}

	return string(b)
}
