package obfuscate

import (
	"encoding/hex"
	"fmt"
)

// Codec converts internal provider identifiers into externally safe tokens and
// back, using a repeating-key XOR over the raw bytes, hex encoded.
//
// This is NOT a confidentiality boundary. It only keeps raw provider ids from
// leaking to client applications and prevents casual enumeration; never rely
// on it for access control.
type Codec struct {
	key []byte
}

// NewCodec creates a codec keyed by secret. The secret must be non-empty.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("obfuscation secret must not be empty")
	}
	return &Codec{key: []byte(secret)}, nil
}

// Encode transforms an internal identifier into an external token.
func (c *Codec) Encode(id string) string {
	return hex.EncodeToString(c.xor([]byte(id)))
}

// Decode reverses Encode. It fails on tokens that are not valid hex.
func (c *Codec) Decode(token string) (string, error) {
	raw, err := hex.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("decoding token: %w", err)
	}
	return string(c.xor(raw)), nil
}

func (c *Codec) xor(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ c.key[i%len(c.key)]
	}
	return out
}
