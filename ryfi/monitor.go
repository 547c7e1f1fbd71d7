package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Best-effort UDP export of soft samples for external
 *		monitoring, per SUPPLEMENTED FEATURES' --udpdump family.
 *
 * Description:	Grounded on the original source's main.cpp wiring
 *		rx.softOut into a dsp::sink::Null: this repo instead taps
 *		the deframer's pre-decode soft-symbol stream and, when
 *		--udpdump is set, fans it out over UDP as a side channel.
 *		Never on the critical path: SendSamples drops on
 *		backpressure (a full OS socket buffer) rather than ever
 *		blocking the RX pipeline.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"

	"github.com/charmbracelet/log"
)

// SampleMonitor is an optional UDP sink for raw soft samples, one
// big-endian float32 per sample.
type SampleMonitor struct {
	conn *net.UDPConn
	log  *log.Logger
}

// NewSampleMonitor dials host:port over UDP. The connection is
// connectionless at the socket level -- dialing just fixes the
// destination for subsequent Write calls.
func NewSampleMonitor(host string, port int) (*SampleMonitor, error) {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("monitor: resolving %s: %w", addr, err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("monitor: dialing %s: %w", addr, err)
	}

	return &SampleMonitor{conn: conn, log: log.Default().WithPrefix("monitor")}, nil
}

// SendSamples encodes samples as big-endian float32 and sends them in
// one datagram. A send error (most commonly backpressure from a slow or
// absent listener) is logged and otherwise ignored: monitoring must
// never perturb the link itself.
func (m *SampleMonitor) SendSamples(samples []float64) {
	buf := make([]byte, 4*len(samples))

	for i, s := range samples {
		binary.BigEndian.PutUint32(buf[4*i:], math.Float32bits(float32(s)))
	}

	if _, err := m.conn.Write(buf); err != nil {
		m.log.Warn("dropping sample datagram", "err", err)
	}
}

// Close releases the UDP socket.
func (m *SampleMonitor) Close() error {
	return m.conn.Close()
}
