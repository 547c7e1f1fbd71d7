package ryfi

import (
	"encoding/binary"
	"math"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleMonitorSendsBigEndianFloats(t *testing.T) {
	lc, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer lc.Close()

	port := lc.LocalAddr().(*net.UDPAddr).Port

	mon, err := NewSampleMonitor("127.0.0.1", port)
	require.NoError(t, err)
	defer mon.Close()

	mon.SendSamples([]float64{1, -1, 0.5})

	buf := make([]byte, 64)
	require.NoError(t, lc.SetReadDeadline(time.Now().Add(time.Second)))
	n, _, err := lc.ReadFromUDP(buf)
	require.NoError(t, err)
	require.Equal(t, 12, n)

	for i, want := range []float64{1, -1, 0.5} {
		got := math.Float32frombits(binary.BigEndian.Uint32(buf[4*i:]))
		assert.InDelta(t, want, got, 1e-6)
	}
}
