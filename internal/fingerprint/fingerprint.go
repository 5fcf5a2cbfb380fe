// Package fingerprint builds content hashes over the business fields of a
// cache record. Same values in the same order always produce the same
// digest, so a row only counts as changed when something the portal cares
// about actually changed. Sync metadata (snapshot date, sync timestamps)
// must never be passed in.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Digest returns the hex SHA-256 of the canonical encoding of values,
// order-sensitive.
func Digest(values ...any) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(canonical(v))
	}
	b.WriteByte(']')

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// canonical encodes a single scalar the same way on every machine: JSON
// string quoting, base-10 integers, shortest round-trip floats with a '.'
// decimal separator, "null" for nils.
func canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		q, _ := json.Marshal(x)
		return string(q)
	case *string:
		if x == nil {
			return "null"
		}
		return canonical(*x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *float64:
		if x == nil {
			return "null"
		}
		return canonical(*x)
	default:
		// scalars only; anything else is a programming error upstream
		return fmt.Sprintf("%v", x)
	}
}
