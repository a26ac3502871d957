// Package device normalizes client-supplied device tokens into the stable
// anonymous identifier used as the ownership and notification key.
package device

import (
	"crypto/sha256"
	"encoding/hex"
)

// digestLen is the hex length of a sha256 digest. Inputs of this shape are
// treated as already normalized so callers can pass either form.
const digestLen = 64

// Normalize maps a raw device token to its stable identifier. Already-hashed
// values pass through unchanged; everything else is digested. The mapping is
// pure, so the same physical device always resolves to the same identifier.
func Normalize(raw string) string {
	if isDigest(raw) {
		return raw
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func isDigest(s string) bool {
	if len(s) != digestLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
