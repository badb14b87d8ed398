package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/deadman/internal/domain"
	"github.com/hamed0406/deadman/internal/repo/memory"
)

// ---- test helpers ----

var testNow = time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := NewServer(zap.NewNop(), memory.New(), func() time.Time { return testNow })
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func decodeRecord(t *testing.T, body io.Reader) domain.Record {
	t.Helper()
	var rec domain.Record
	if err := json.NewDecoder(body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return rec
}

// ---- tests ----

func TestReport_PostDefaultsToFailure_AttachesBody(t *testing.T) {
	ts := setupServer(t)

	resp, err := http.Post(ts.URL+"/report/nightly/backup", "text/plain",
		bytes.NewReader([]byte("tar: /data: No space left on device")))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	rec := decodeRecord(t, resp.Body)
	if rec.Path != "/nightly/backup" {
		t.Fatalf("path = %q", rec.Path)
	}
	if rec.Status != domain.StatusFailure {
		t.Fatalf("POST without status param must default to failure, got %q", rec.Status)
	}
	if rec.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if rec.Logs == nil || *rec.Logs != "tar: /data: No space left on device" {
		t.Fatalf("body not attached as logs: %+v", rec.Logs)
	}
	if !rec.TS.Equal(testNow) {
		t.Fatalf("ts should come from the injected clock: %v", rec.TS)
	}
}

func TestReport_GetDefaultsToSuccess_WithNext(t *testing.T) {
	ts := setupServer(t)

	resp, err := http.Get(ts.URL + "/report/nightly/backup?next=15m")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	rec := decodeRecord(t, resp.Body)
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("GET without status param must default to success, got %q", rec.Status)
	}
	if rec.Next == nil || !rec.Next.Equal(testNow.Add(15*time.Minute)) {
		t.Fatalf("next = %v, want clock+15m", rec.Next)
	}
}

func TestReport_StatusParamWins(t *testing.T) {
	ts := setupServer(t)

	resp, err := http.Get(ts.URL + "/report/job?status=FAILED")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	rec := decodeRecord(t, resp.Body)
	if rec.Status != domain.StatusFailure {
		t.Fatalf("status param should override the method default, got %q", rec.Status)
	}
}

func TestReport_EmptyPathRejected(t *testing.T) {
	ts := setupServer(t)

	resp, err := http.Get(ts.URL + "/report/")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for empty job path, got %d", resp.StatusCode)
	}
}

func TestCheckins_LatestPerPath(t *testing.T) {
	ts := setupServer(t)

	for _, u := range []string{
		"/report/test?ts=2025-08-18T10:00:00Z",
		"/report/test?ts=2025-08-18T10:00:01Z&status=fail",
		"/report/test/a?ts=2025-08-18T10:00:02Z",
	} {
		resp, err := http.Get(ts.URL + u)
		if err != nil {
			t.Fatalf("GET %s: %v", u, err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/checkins")
	if err != nil {
		t.Fatalf("GET checkins: %v", err)
	}
	defer resp.Body.Close()

	var recs []domain.Record
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Path != "/test/a" || recs[1].Path != "/test" {
		t.Fatalf("unexpected order: %q then %q", recs[0].Path, recs[1].Path)
	}
	if recs[1].Status != domain.StatusFailure {
		t.Fatalf("latest row for /test should be the failure, got %q", recs[1].Status)
	}
}

func TestCheckins_EmptyListIsArray(t *testing.T) {
	ts := setupServer(t)

	resp, err := http.Get(ts.URL + "/api/checkins")
	if err != nil {
		t.Fatalf("GET checkins: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("empty store must encode as [], got %s", body)
	}
}

func TestCheckins_Overdue(t *testing.T) {
	ts := setupServer(t)

	// deadline one minute before the fixed clock -> overdue
	past := testNow.Add(-11 * time.Minute).Format(time.RFC3339)
	if resp, err := http.Get(ts.URL + "/report/late-job?ts=" + past + "&next=10m"); err != nil {
		t.Fatalf("GET: %v", err)
	} else {
		resp.Body.Close()
	}
	// deadline in the future -> not overdue
	if resp, err := http.Get(ts.URL + "/report/ok-job?next=10m"); err != nil {
		t.Fatalf("GET: %v", err)
	} else {
		resp.Body.Close()
	}
	// no deadline -> never overdue
	if resp, err := http.Get(ts.URL + "/report/no-deadline"); err != nil {
		t.Fatalf("GET: %v", err)
	} else {
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/checkins/overdue")
	if err != nil {
		t.Fatalf("GET overdue: %v", err)
	}
	defer resp.Body.Close()

	var recs []domain.Record
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(recs) != 1 || recs[0].Path != "/late-job" {
		t.Fatalf("expected exactly /late-job to be overdue, got %+v", recs)
	}
}

// failingStore returns a storage error from every operation.
type failingStore struct{}

func (failingStore) Append(context.Context, *domain.Record) error { return errors.New("disk on fire") }
func (failingStore) Latest(context.Context) ([]domain.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestStorageErrorsMapTo500(t *testing.T) {
	srv := NewServer(zap.NewNop(), failingStore{}, func() time.Time { return testNow })
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/report/job")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("report: want 500, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/checkins")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("checkins: want 500, got %d", resp.StatusCode)
	}
}
