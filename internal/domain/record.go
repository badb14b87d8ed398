package domain

import (
	"net/http"
	"strings"
	"time"
)

// Status classifies one reported check-in. There is no persisted
// "overdue" status; overdue is derived at read time from Next.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// StatusFromString is a lenient classifier, not a strict parse: any
// input whose lowercase form contains "fail" is a failure; everything
// else (including the empty string) is a success.
func StatusFromString(s string) Status {
	if strings.Contains(strings.ToLower(s), "fail") {
		return StatusFailure
	}
	return StatusSuccess
}

// Record is one reported check-in for a monitored job. Records are
// append-only: the current state of a path is whichever of its records
// carries the greatest TS.
type Record struct {
	ID     int64
	Path   string
	Status Status
	TS     time.Time
	Next   *time.Time // nil means no deadline tracked
	Logs   *string
}

// IsOverdue reports whether the expected next check-in time has passed.
// Always false when no deadline is tracked. The caller supplies the
// current time so tests can inject a fixed clock.
func (r *Record) IsOverdue(now time.Time) bool {
	if r.Next == nil {
		return false
	}
	return !now.Before(*r.Next)
}

// FromQuery builds an unsaved Record (ID 0, no logs yet) from the
// request's query parameters. ts falls back to now() when absent or
// malformed, next is resolved relative to the resolved ts, and status
// falls back to def when the parameter is absent.
func FromQuery(path string, def Status, r *http.Request, now func() time.Time) *Record {
	q := r.URL.Query()

	ts, err := ParseTime(q.Get("ts"))
	if err != nil {
		ts = now().UTC()
	}

	status := def
	if v := q.Get("status"); v != "" {
		status = StatusFromString(v)
	}

	return &Record{
		Path:   path,
		Status: status,
		TS:     ts,
		Next:   NextFromDuration(ts, q.Get("next")),
	}
}
