package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHamlibDriverName(t *testing.T) {
	d := NewHamlibDriver(1, "/dev/ttyUSB0", 9600)
	assert.Equal(t, "hamlib", d.Name())
}

func TestHamlibDriverList(t *testing.T) {
	d := NewHamlibDriver(1, "/dev/ttyUSB0", 9600)

	infos, err := d.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "hamlib", infos[0].Driver)
	assert.Equal(t, "/dev/ttyUSB0", infos[0].Identifier)
	assert.Equal(t, TypeReceiver, infos[0].Type)

	assert.Equal(t, TypeTransmitter, infos[1].Type)
}

// catHandle's sample methods never touch the rig: CAT control carries no
// sample stream, so both must always error regardless of rig state.
func TestCatHandleSampleMethodsAlwaysError(t *testing.T) {
	c := &catHandle{d: &HamlibDriver{}}

	_, err := c.ReadSamples(context.Background(), make([]float32, 4))
	assert.Error(t, err)

	assert.Error(t, c.WriteSamples(context.Background(), make([]float32, 4)))
}

func TestCatHandleSetFrequencyRequiresOpenRig(t *testing.T) {
	c := &catHandle{d: &HamlibDriver{}}

	assert.Error(t, c.SetFrequencyHz(435000000))
}

func TestParseRigSpec(t *testing.T) {
	model, port, baud, err := ParseRigSpec("1019:/dev/ttyUSB0:9600")
	require.NoError(t, err)
	assert.Equal(t, 1019, model)
	assert.Equal(t, "/dev/ttyUSB0", port)
	assert.Equal(t, 9600, baud)
}

func TestParseRigSpecBaudOptional(t *testing.T) {
	model, port, baud, err := ParseRigSpec("1019:/dev/ttyUSB0")
	require.NoError(t, err)
	assert.Equal(t, 1019, model)
	assert.Equal(t, "/dev/ttyUSB0", port)
	assert.Equal(t, 0, baud)
}

func TestParseRigSpecRejectsMalformed(t *testing.T) {
	_, _, _, err := ParseRigSpec("1019")
	assert.Error(t, err)

	_, _, _, err = ParseRigSpec("notanumber:/dev/ttyUSB0")
	assert.Error(t, err)
}
