package device

import (
	"io"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSerialCATWritesFormattedCommand opens a pty loopback pair, the
// same fixture shape the teacher's kiss.go uses for its own serial
// tests, and checks the formatted CAT command lands on the wire intact.
func TestSerialCATWritesFormattedCommand(t *testing.T) {
	ptmx, pts, err := pty.Open()
	require.NoError(t, err)

	defer ptmx.Close()
	defer pts.Close()

	cat, err := OpenSerialCAT(pts.Name(), 0, KenwoodStyleFreq)
	require.NoError(t, err)

	defer cat.Close()

	require.NoError(t, cat.SetFrequencyHz(435000000))

	buf := make([]byte, 64)
	n, err := io.ReadAtLeast(ptmx, buf, len("FA00435000000;"))
	require.NoError(t, err)

	assert.Equal(t, "FA00435000000;", string(buf[:n]))
}

func TestKenwoodStyleFreq(t *testing.T) {
	assert.Equal(t, "FA00435000000;", KenwoodStyleFreq(435000000))
	assert.Equal(t, "FA02315000000;", KenwoodStyleFreq(2315000000))
}
