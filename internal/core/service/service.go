package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techvisits/visits-manager/internal/core/ports"
)

// clock and idGenerator are swapped in tests to make created records deterministic.
type (
	clock       func() time.Time
	idGenerator func() string
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// timestamp reads now in UTC at millisecond precision, the precision of
// domain.VisitDateLayout.
func timestamp(now clock) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

func newRecordID() string {
	return uuid.NewString()
}

// isBlank reports whether s is empty once surrounding whitespace is removed.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// orDefault returns s when it has non-whitespace content, def otherwise.
func orDefault(s, def string) string {
	if isBlank(s) {
		return def
	}
	return s
}

var (
	_ ports.ClientService = (*ClientService)(nil)
	_ ports.VisitService  = (*VisitService)(nil)
)
