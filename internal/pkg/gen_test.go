package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAcceptKey(t *testing.T) {
	// the sample handshake from RFC 6455 section 1.3
	accept := GenerateAcceptKey("dGhlIHNhbXBsZSBub25jZQ==")

	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", accept)
}

func TestGenerateRoomID(t *testing.T) {
	t.Run("Eight characters from the unambiguous alphabet", func(t *testing.T) {
		roomID := GenerateRoomID()

		assert.Len(t, roomID, 8)
		for _, r := range roomID {
			assert.Contains(t, "ABCDEFGHJKLMNPQRSTUVWXYZ23456789", string(r))
		}
	})

	t.Run("Successive ids differ", func(t *testing.T) {
		assert.NotEqual(t, GenerateRoomID(), GenerateRoomID())
	})
}

func TestGenerateNewSessionID(t *testing.T) {
	first := GenerateNewSessionID()
	second := GenerateNewSessionID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
