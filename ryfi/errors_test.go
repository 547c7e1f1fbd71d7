package ryfi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapsAndUnwraps(t *testing.T) {
	cause := errors.New("device busy")
	err := newErr(TransientIO, "reading samples", cause)

	assert.Equal(t, "TransientIO: reading samples: device busy", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Fatal())
}

func TestErrorFatalOnlyForFatalInit(t *testing.T) {
	assert.True(t, (&Error{Kind: FatalInit, Msg: "opening TUN"}).Fatal())
	assert.False(t, (&Error{Kind: QueueOverflow, Msg: "queue full"}).Fatal())
}

func TestErrKindStringNames(t *testing.T) {
	cases := map[ErrKind]string{
		FatalInit:      "FatalInit",
		TransientIO:    "TransientIO",
		FrameCorrupt:   "FrameCorrupt",
		QueueOverflow:  "QueueOverflow",
		ProtocolDesync: "ProtocolDesync",
		Cancelled:      "Cancelled",
	}

	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
