package runcache

import (
	"errors"
	"testing"
)

func TestMemoFillsOnce(t *testing.T) {
	t.Parallel()

	c := New()
	calls := 0
	fill := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Memo(c, "answer", fill)
		if err != nil {
			t.Fatalf("Memo returned error: %v", err)
		}
		if got != 42 {
			t.Fatalf("Memo = %d, want 42", got)
		}
	}
	if calls != 1 {
		t.Fatalf("fill ran %d times, want 1", calls)
	}
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	c := New()
	boom := errors.New("boom")
	calls := 0
	fill := func() (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	}

	if _, err := Memo(c, "k", fill); !errors.Is(err, boom) {
		t.Fatalf("first Memo error = %v, want %v", err, boom)
	}
	got, err := Memo(c, "k", fill)
	if err != nil {
		t.Fatalf("second Memo returned error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("second Memo = %q, want %q", got, "ok")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	c := New()
	if _, err := Memo(c, "k", func() (int, error) { return 1, nil }); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", c.Len())
	}

	calls := 0
	if _, err := Memo(c, "k", func() (int, error) { calls++; return 2, nil }); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatal("expected fill to run again after Clear")
	}
}

func TestMemoNilCache(t *testing.T) {
	t.Parallel()

	got, err := Memo[int](nil, "k", func() (int, error) { return 7, nil })
	if err != nil {
		t.Fatalf("Memo returned error: %v", err)
	}
	if got != 7 {
		t.Fatalf("Memo = %d, want 7", got)
	}
}
