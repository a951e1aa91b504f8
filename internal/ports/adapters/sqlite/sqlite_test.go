package sqlite

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUnknownSourceIsNotCompleted(t *testing.T) {
	s := openTestStore(t)

	done, err := s.IsCompleted(context.Background(), "missing")
	if err != nil {
		t.Fatalf("IsCompleted: %v", err)
	}
	if done {
		t.Fatal("unknown source reported completed")
	}
}

func TestStatusLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.MarkProcessing(ctx, "vid1", "https://youtube.example/watch?v=vid1", "Episode 1"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if done, _ := s.IsCompleted(ctx, "vid1"); done {
		t.Fatal("processing source reported completed")
	}

	if err := s.MarkCompleted(ctx, "vid1"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	done, err := s.IsCompleted(ctx, "vid1")
	if err != nil {
		t.Fatalf("IsCompleted: %v", err)
	}
	if !done {
		t.Fatal("completed source not reported completed")
	}
}

func TestMarkFailedClearsCompletion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.MarkProcessing(ctx, "vid2", "https://youtube.example/watch?v=vid2", "Episode 2"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if err := s.MarkFailed(ctx, "vid2"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if done, _ := s.IsCompleted(ctx, "vid2"); done {
		t.Fatal("failed source reported completed")
	}

	// A later successful run overwrites the failed row.
	if err := s.MarkProcessing(ctx, "vid2", "https://youtube.example/watch?v=vid2", "Episode 2"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if err := s.MarkCompleted(ctx, "vid2"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if done, _ := s.IsCompleted(ctx, "vid2"); !done {
		t.Fatal("re-run source not reported completed")
	}
}
