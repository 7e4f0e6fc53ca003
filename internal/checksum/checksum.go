package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of the working document text.
// This is the local checksum exposed in /status and accepted as If-Match on
// save; it is unrelated to the remote blob sha.
func Sum(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
