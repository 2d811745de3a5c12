package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200

	bookingCursorPrefix = "bk1:"
)

// Cursor is the opaque keyset position handed to clients.
type Cursor struct {
	After string `json:"after,omitempty"`
}

// EncodeAfterCursor packs the (created_at, id) keyset of the last row on a
// page. Microseconds match the precision of timestamptz.
func EncodeAfterCursor(createdAt time.Time, id uuid.UUID) string {
	var b strings.Builder
	b.WriteString(bookingCursorPrefix)
	b.WriteString(strconv.FormatInt(createdAt.UnixMicro(), 10))
	b.WriteByte('.')
	b.WriteString(id.String())
	return base64.RawURLEncoding.EncodeToString([]byte(b.String()))
}

// DecodeAfterCursor returns ErrInvalidCursor for anything EncodeAfterCursor
// did not produce.
func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}

	payload, ok := strings.CutPrefix(string(raw), bookingCursorPrefix)
	if !ok {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}
	micros, idStr, ok := strings.Cut(payload, ".")
	if !ok {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}

	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil || ts < 0 {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}

	return time.UnixMicro(ts).UTC(), id, nil
}

func ValidateLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
