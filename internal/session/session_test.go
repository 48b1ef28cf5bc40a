package session

import (
	"testing"

	"github.com/kbellanger/salescope/internal/classify"
	"github.com/kbellanger/salescope/internal/loader"
	"github.com/kbellanger/salescope/internal/table"
)

func newSession(t *testing.T, s *Store) Session {
	t.Helper()
	tab := &table.Table{
		Columns: []table.Column{{Name: "montant", Kind: table.Number}},
		Rows:    [][]table.Cell{{table.NumberCell(100)}},
	}
	return s.Create("ventes.csv", tab, &loader.Diagnostics{RowsBefore: 1},
		classify.Candidates{Numeric: []string{"montant"}},
		classify.Assignment{Value: "montant"})
}

func TestStoreCreateGet(t *testing.T) {
	store := NewStore()
	sess := newSession(t, store)
	if sess.ID == "" {
		t.Fatal("empty session ID")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("session not found")
	}
	if got.Filename != "ventes.csv" {
		t.Errorf("Filename = %q", got.Filename)
	}
	if _, ok := store.Get("missing"); ok {
		t.Error("Get on unknown ID reported ok")
	}
}

func TestStoreIDsAreUnique(t *testing.T) {
	store := NewStore()
	a := newSession(t, store)
	b := newSession(t, store)
	if a.ID == b.ID {
		t.Errorf("duplicate session ID %q", a.ID)
	}
}

func TestStoreUpdate(t *testing.T) {
	store := NewStore()
	sess := newSession(t, store)

	ok := store.Update(sess.ID, func(s *Session) {
		s.Roles.Region = "région"
	})
	if !ok {
		t.Fatal("Update reported not found")
	}
	got, _ := store.Get(sess.ID)
	if got.Roles.Region != "région" {
		t.Errorf("Region = %q after update", got.Roles.Region)
	}

	if store.Update("missing", func(*Session) {}) {
		t.Error("Update on unknown ID reported ok")
	}
}

// Get must hand out a copy: mutating it must not leak into the store, and a
// copy taken before an update must keep the fields it was taken with.
func TestGetReturnsCopy(t *testing.T) {
	store := NewStore()
	sess := newSession(t, store)

	got, _ := store.Get(sess.ID)
	got.Filename = "autre.csv"
	if again, _ := store.Get(sess.ID); again.Filename != "ventes.csv" {
		t.Fatalf("store observed a caller-side mutation: %q", again.Filename)
	}

	before, _ := store.Get(sess.ID)
	store.Update(sess.ID, func(s *Session) {
		s.Roles.Region = "région"
	})
	if before.Roles.Region != "" {
		t.Fatalf("earlier copy changed under an update: %q", before.Roles.Region)
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	sess := newSession(t, store)
	store.Delete(sess.ID)
	if _, ok := store.Get(sess.ID); ok {
		t.Error("session still present after delete")
	}
}
