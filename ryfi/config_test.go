package ryfi

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, "ryfi0", cfg.TunName)
	assert.InDelta(t, 435e6, cfg.RXFreqHz, 1)
	assert.InDelta(t, 2315e6, cfg.TXFreqHz, 1)
	assert.InDelta(t, 720e3, cfg.BaudRate, 1)
	assert.False(t, cfg.List)
	assert.False(t, cfg.Drivers)
}

func TestParseFlagsOverridesDefaults(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"--tun", "ryfi1",
		"--rxdev", "audio:front",
		"--txdev", "hamlib:/dev/ttyUSB0",
		"--rxfreq", "144390000",
		"--baudrate", "9600",
		"--list",
	})
	require.NoError(t, err)

	assert.Equal(t, "ryfi1", cfg.TunName)
	assert.Equal(t, "audio:front", cfg.RXDevice)
	assert.Equal(t, "hamlib:/dev/ttyUSB0", cfg.TXDevice)
	assert.InDelta(t, 144390000, cfg.RXFreqHz, 1)
	assert.InDelta(t, 9600, cfg.BaudRate, 1)
	assert.True(t, cfg.List)
}

func TestParseFlagsConfigFileLayering(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "ryfi-*.yaml")
	require.NoError(t, err)

	_, err = f.WriteString("tun: ryfi-file\nrxfreq: 222000000\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := ParseFlags([]string{"--config", f.Name(), "--txfreq", "900000000"})
	require.NoError(t, err)

	assert.Equal(t, "ryfi-file", cfg.TunName, "file value used when flag absent")
	assert.InDelta(t, 222000000, cfg.RXFreqHz, 1)
	assert.InDelta(t, 900000000, cfg.TXFreqHz, 1, "flag overrides file")
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	_, err := ParseFlags([]string{"--not-a-flag"})
	assert.Error(t, err)
}

func TestParseFlagsRigAndPTTGPIO(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"--rig", "1019:/dev/ttyUSB0:9600",
		"--ptt-gpio", "gpiochip0:17:invert",
	})
	require.NoError(t, err)

	assert.Equal(t, "1019:/dev/ttyUSB0:9600", cfg.RigSpec)
	assert.Equal(t, "gpiochip0:17:invert", cfg.PTTGPIOSpec)
}
