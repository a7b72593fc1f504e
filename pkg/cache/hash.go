package cache

import (
	"crypto/sha256"
	"encoding/hex"

	jsoniter "github.com/json-iterator/go"
)

// keyJSON encodes key parts. Map keys are sorted so equal options always
// hash alike.
var keyJSON = jsoniter.Config{SortMapKeys: true}.Froze()

// hashKey returns "prefix:" plus the SHA-256 of the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	enc := keyJSON.NewEncoder(h)
	for _, p := range parts {
		// Encoding plain option structs and strings cannot fail.
		_ = enc.Encode(p)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data, the content address of a document.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
