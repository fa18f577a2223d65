package store

import (
	"errors"
	"testing"

	"yawt/pkg/apperr"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestGetSetDelete(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.Get("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := st.Set("k1", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := st.Get("k1")
	if err != nil || string(v) != "v1" {
		t.Fatalf("Get = (%q, %v)", v, err)
	}
	if err := st.Delete("k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get("k1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestListPrefixOrderedAndBounded(t *testing.T) {
	st := openTestStore(t)
	for _, k := range []string{"a/2", "a/1", "a/3", "b/1", "a"} {
		if err := st.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	kvs, err := st.ListPrefix("a/")
	if err != nil {
		t.Fatalf("ListPrefix: %v", err)
	}
	want := []string{"a/1", "a/2", "a/3"}
	if len(kvs) != len(want) {
		t.Fatalf("ListPrefix returned %d entries, want %d", len(kvs), len(want))
	}
	for i, kv := range kvs {
		if kv.Key != want[i] {
			t.Fatalf("ListPrefix[%d] = %q, want %q", i, kv.Key, want[i])
		}
	}
}

func TestLastKey(t *testing.T) {
	st := openTestStore(t)
	if _, ok, err := st.LastKey("order/"); err != nil || ok {
		t.Fatalf("LastKey on empty prefix = (ok=%v, err=%v)", ok, err)
	}
	for _, k := range []string{"order/A/x", "order/V/y", "order/B/z"} {
		if err := st.Set(k, []byte{1}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	k, ok, err := st.LastKey("order/")
	if err != nil || !ok || k != "order/V/y" {
		t.Fatalf("LastKey = (%q, %v, %v)", k, ok, err)
	}
}

func TestHasPrefix(t *testing.T) {
	st := openTestStore(t)
	if ok, _ := st.HasPrefix("x/"); ok {
		t.Fatal("HasPrefix on empty store should be false")
	}
	_ = st.Set("x/1", []byte{1})
	if ok, _ := st.HasPrefix("x/"); !ok {
		t.Fatal("HasPrefix should see x/1")
	}
}

func TestCommitAppliesAllOrNothing(t *testing.T) {
	st := openTestStore(t)
	_ = st.Set("rec", []byte("old"))

	err := st.Commit(
		[]Check{{Key: "rec", Value: []byte("changed-elsewhere")}},
		[]Op{{Key: "rec", Value: []byte("new")}, {Key: "idx", Value: []byte{1}}},
	)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Commit err = %v, want ErrConflict", err)
	}
	if v, _ := st.Get("rec"); string(v) != "old" {
		t.Fatalf("rec = %q after failed commit, want old", v)
	}
	if _, err := st.Get("idx"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatal("idx must not exist after failed commit")
	}

	err = st.Commit(
		[]Check{{Key: "rec", Value: []byte("old")}, {Key: "absent"}},
		[]Op{{Key: "rec", Value: []byte("new")}, {Key: "idx", Value: []byte{1}}, {Key: "gone", Delete: true}},
	)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if v, _ := st.Get("rec"); string(v) != "new" {
		t.Fatalf("rec = %q, want new", v)
	}
	if _, err := st.Get("idx"); err != nil {
		t.Fatalf("idx missing after commit: %v", err)
	}
}

func TestCommitAbsenceCheck(t *testing.T) {
	st := openTestStore(t)
	_ = st.Set("taken", []byte("x"))
	err := st.Commit([]Check{{Key: "taken"}}, []Op{{Key: "other", Value: []byte("y")}})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("absence check on existing key: err = %v, want ErrConflict", err)
	}
}
