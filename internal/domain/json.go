package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DecodeError reports which field of a record document failed to decode.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode record: field %q: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// recordJSON is the wire shape shared by the ingestion and query
// endpoints. Timestamps travel as RFC 3339 UTC strings.
type recordJSON struct {
	ID     int64   `json:"id"`
	Path   string  `json:"path"`
	Status string  `json:"status"`
	TS     string  `json:"ts"`
	Next   *string `json:"next"`
	Logs   *string `json:"logs"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ID:     r.ID,
		Path:   r.Path,
		Status: string(r.Status),
		TS:     FormatTime(r.TS),
		Logs:   r.Logs,
	}
	if r.Next != nil {
		next := FormatTime(*r.Next)
		out.Next = &next
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &DecodeError{Field: typeErr.Field, Err: err}
		}
		return &DecodeError{Field: "document", Err: err}
	}
	if raw.Path == "" {
		return &DecodeError{Field: "path", Err: errors.New("empty path")}
	}
	ts, err := ParseTime(raw.TS)
	if err != nil {
		return &DecodeError{Field: "ts", Err: err}
	}
	var next *time.Time
	if raw.Next != nil {
		t, err := ParseTime(*raw.Next)
		if err != nil {
			return &DecodeError{Field: "next", Err: err}
		}
		next = &t
	}
	r.ID = raw.ID
	r.Path = raw.Path
	r.Status = StatusFromString(raw.Status)
	r.TS = ts
	r.Next = next
	r.Logs = raw.Logs
	return nil
}

// ToJSON encodes one record in the shared wire shape.
func ToJSON(r *Record) ([]byte, error) {
	return json.Marshal(r)
}

// ParseJSON decodes one record document. Malformed documents fail with
// a *DecodeError naming the offending field; a malformed status does
// not (it is classified leniently, like everywhere else).
func ParseJSON(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		// Syntax errors surface before UnmarshalJSON ever runs, so
		// they arrive here unwrapped.
		var de *DecodeError
		if !errors.As(err, &de) {
			return nil, &DecodeError{Field: "document", Err: err}
		}
		return nil, err
	}
	return &r, nil
}
