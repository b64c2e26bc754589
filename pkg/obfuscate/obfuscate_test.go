package obfuscate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	c, err := NewCodec("s3cr3t-key")
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
	}{
		{"provider id", "pi_3MtwBwLkdIwHu7ix28a3tqPa"},
		{"short", "x"},
		{"empty", ""},
		{"delimited encoding", "ORD-1042|8000|0|cus_9f2"},
		{"longer than key", "pi_0123456789abcdef0123456789abcdef0123456789"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := c.Encode(tt.id)
			got, err := c.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.id, got)
		})
	}
}

func TestCodec_TokenDiffersFromID(t *testing.T) {
	c, err := NewCodec("s3cr3t-key")
	require.NoError(t, err)

	id := "pi_3MtwBwLkdIwHu7ix"
	assert.NotEqual(t, id, c.Encode(id))
}

func TestCodec_KeyedDifferently(t *testing.T) {
	a, err := NewCodec("key-a")
	require.NoError(t, err)
	b, err := NewCodec("key-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.Encode("pi_123"), b.Encode("pi_123"))
}

func TestCodec_Decode_InvalidHex(t *testing.T) {
	c, err := NewCodec("s3cr3t-key")
	require.NoError(t, err)

	_, err = c.Decode("not-hex!")
	assert.Error(t, err)
}
