package domain

import (
	"strconv"
	"time"
)

// Epoch is the sentinel a row decoder falls back to when a stored
// timestamp does not parse.
var Epoch = time.Unix(0, 0).UTC()

// FormatTime renders a timestamp the way both the wire codec and the
// row codec store it: RFC 3339 in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTime parses an RFC 3339 timestamp.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseTimeOrEpoch is the row-decoding variant: a stored timestamp that
// does not parse yields Epoch instead of an error, so one bad row cannot
// fail a whole query.
func ParseTimeOrEpoch(s string) time.Time {
	t, err := ParseTime(s)
	if err != nil {
		return Epoch
	}
	return t
}

// NextFromDuration resolves a relative duration string against base.
// The grammar is a single integer followed by exactly one of the units
// s, m or h ("90s", "15m", "2h"). Anything else — empty input, a bare
// number, an unsupported unit, a composite like "2m45s" — resolves to
// nil rather than an error.
func NextFromDuration(base time.Time, s string) *time.Time {
	if s == "" {
		return nil
	}
	var unit time.Duration
	switch s[len(s)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	default:
		return nil
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return nil
	}
	next := base.Add(time.Duration(n) * unit)
	return &next
}
