package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hamed0406/deadman/internal/domain"
)

func TestMemoryStore_Append_AssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := &domain.Record{Path: "/test", Status: domain.StatusSuccess, TS: time.Now().UTC()}
	b := &domain.Record{Path: "/test", Status: domain.StatusSuccess, TS: time.Now().UTC()}
	if err := s.Append(ctx, a); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, b); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("expected distinct nonzero ids, got %d and %d", a.ID, b.ID)
	}
}

func TestMemoryStore_Latest_OneRowPerPath(t *testing.T) {
	ctx := context.Background()
	s := New()

	t0 := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)
	t2 := t0.Add(2 * time.Second)

	for _, rec := range []*domain.Record{
		{Path: "/test", Status: domain.StatusSuccess, TS: t0},
		{Path: "/test", Status: domain.StatusFailure, TS: t1},
		{Path: "/test/a", Status: domain.StatusSuccess, TS: t2},
	} {
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records (one per path), got %d", len(got))
	}
	// ordered by ts descending across paths
	if got[0].Path != "/test/a" || !got[0].TS.Equal(t2) {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].Path != "/test" || !got[1].TS.Equal(t1) || got[1].Status != domain.StatusFailure {
		t.Fatalf("expected the newer failure row for /test, got %+v", got[1])
	}
}

func TestMemoryStore_Latest_Empty(t *testing.T) {
	got, err := New().Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}
