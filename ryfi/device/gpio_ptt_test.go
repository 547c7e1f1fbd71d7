package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPTTLineValue(t *testing.T) {
	cases := []struct {
		asserted, invert bool
		want             int
	}{
		{asserted: false, invert: false, want: 0},
		{asserted: true, invert: false, want: 1},
		{asserted: false, invert: true, want: 1},
		{asserted: true, invert: true, want: 0},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, pttLineValue(c.asserted, c.invert))
	}
}

func TestParseGPIOPTTSpec(t *testing.T) {
	chip, line, invert, err := ParseGPIOPTTSpec("gpiochip0:17")
	require.NoError(t, err)
	assert.Equal(t, "gpiochip0", chip)
	assert.Equal(t, 17, line)
	assert.False(t, invert)

	chip, line, invert, err = ParseGPIOPTTSpec("gpiochip0:17:invert")
	require.NoError(t, err)
	assert.Equal(t, "gpiochip0", chip)
	assert.Equal(t, 17, line)
	assert.True(t, invert)
}

func TestParseGPIOPTTSpecRejectsMalformed(t *testing.T) {
	_, _, _, err := ParseGPIOPTTSpec("gpiochip0")
	assert.Error(t, err)

	_, _, _, err = ParseGPIOPTTSpec("gpiochip0:notanumber")
	assert.Error(t, err)

	_, _, _, err = ParseGPIOPTTSpec("gpiochip0:17:backwards")
	assert.Error(t, err)
}
