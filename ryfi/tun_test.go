package ryfi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIfReqNameEncoding(t *testing.T) {
	var req ifReq
	copy(req.Name[:], "ryfi0")

	assert.Equal(t, "ryfi0", nullTerminated(req.Name[:]))
}

func TestNullTerminatedHandlesFullBuffer(t *testing.T) {
	b := make([]byte, 4)
	for i := range b {
		b[i] = 'a'
	}

	assert.Equal(t, "aaaa", nullTerminated(b))
}
