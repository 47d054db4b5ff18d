package git

import (
	"reflect"
	"testing"
)

func TestNewPathSetDedupesAndSorts(t *testing.T) {
	t.Parallel()

	a := NewPathSet("images/hub", "chartmint.yaml", "images/hub", "", "./images/hub")
	if got, want := a.Paths(), []string{"chartmint.yaml", "images/hub"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Paths = %v, want %v", got, want)
	}
}

func TestPathSetOrderIrrelevant(t *testing.T) {
	t.Parallel()

	a := NewPathSet("b", "a", "c")
	b := NewPathSet("c", "b", "a")
	if a.Key() != b.Key() {
		t.Fatalf("Key mismatch for same set: %q vs %q", a.Key(), b.Key())
	}
}

func TestPathSetUnion(t *testing.T) {
	t.Parallel()

	a := NewPathSet("images/hub", "hub/Dockerfile")
	b := NewPathSet("chart", "images/hub")
	u := a.Union(b)
	if got, want := u.Paths(), []string{"chart", "hub/Dockerfile", "images/hub"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Union paths = %v, want %v", got, want)
	}

	// Union direction must not matter.
	if u.Key() != b.Union(a).Key() {
		t.Fatal("union is not symmetric")
	}
}

func TestPathSetEmpty(t *testing.T) {
	t.Parallel()

	if !NewPathSet().Empty() {
		t.Fatal("empty set should report Empty")
	}
	if NewPathSet(".").Empty() {
		t.Fatal("non-empty set reported Empty")
	}
}
