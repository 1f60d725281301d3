package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "crewmux.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListRuns(t *testing.T) {
	s := newTestStore(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	started := time.Now().UTC().Add(-time.Minute)
	first, err := s.RecordRun(Run{
		Status:     RunSucceeded,
		ToolCount:  42,
		GroupCount: 6,
		StartedAt:  started,
		EndedAt:    started.Add(30 * time.Second),
	})
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if first.ID == "" {
		t.Error("RecordRun() did not assign an id")
	}

	_, err = s.RecordRun(Run{
		Status:    RunFailed,
		ToolCount: 42,
		Error:     "grouping attempts exhausted",
		StartedAt: started.Add(time.Minute),
		EndedAt:   started.Add(2 * time.Minute),
	})
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Newest first.
	if runs[0].Status != RunFailed || runs[1].Status != RunSucceeded {
		t.Errorf("unexpected order: %s, %s", runs[0].Status, runs[1].Status)
	}
	if runs[0].Error != "grouping attempts exhausted" {
		t.Errorf("error text lost: %q", runs[0].Error)
	}
	if runs[1].GroupCount != 6 {
		t.Errorf("group count lost: %d", runs[1].GroupCount)
	}
}

func TestListRuns_Empty(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
