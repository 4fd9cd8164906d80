package search

import (
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"
)

// cursorPayload is the decoded form of a continuation token: the id of the
// last record on the previous page. Sort-key values are recovered from the
// record itself, never encoded, so a cursor cannot carry an offset.
type cursorPayload struct {
	Last uuid.UUID `json:"last"`
}

// EncodeCursor produces an opaque continuation token for the given issue id.
func EncodeCursor(id uuid.UUID) string {
	raw, _ := json.Marshal(cursorPayload{Last: id})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor recovers the last-seen issue id from a token. A malformed
// token yields ok=false and is treated as "no cursor supplied".
func DecodeCursor(token string) (uuid.UUID, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return uuid.Nil, false
	}
	var p cursorPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Last == uuid.Nil {
		return uuid.Nil, false
	}
	return p.Last, true
}
