package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

type doc struct {
	ID      string    `bson:"_id,omitempty"`
	Name    string    `bson:"name"`
	Members []string  `bson:"members"`
	Count   int       `bson:"count"`
	Notes   []note    `bson:"notes"`
	At      time.Time `bson:"at"`
	Public  bool      `bson:"public"`
}

type note struct {
	Text string `bson:"text"`
}

func newDocs(t *testing.T) (*MemoryStore, *MemoryCollection[doc]) {
	t.Helper()
	s := NewMemoryStore()
	return s, NewMemoryCollection[doc](s, "docs")
}

func mustInsert(t *testing.T, c Collection[doc], d doc) string {
	t.Helper()
	id, err := c.Insert(context.Background(), d)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return id
}

func TestMemoryInsertGet(t *testing.T) {
	_, c := newDocs(t)
	ctx := context.Background()

	id := mustInsert(t, c, doc{Name: "a", Members: []string{}, Notes: []note{}})
	if id == "" {
		t.Fatal("store should assign an id")
	}

	got, err := c.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != id || got.Name != "a" {
		t.Fatalf("unexpected doc %+v", got)
	}

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Insert(ctx, doc{ID: id}); err == nil {
		t.Fatal("duplicate id should fail")
	}
}

func TestMemoryUpdateOperators(t *testing.T) {
	_, c := newDocs(t)
	ctx := context.Background()
	id := mustInsert(t, c, doc{Name: "a", Members: []string{"u1"}, Count: 1, Notes: []note{}})

	matched, err := c.Update(ctx, id, Mutation{
		AddToSet: map[string]any{"members": "u2"},
		Inc:      map[string]int{"count": 1},
		Push:     map[string]any{"notes": note{Text: "hi"}},
		Set:      map[string]any{"name": "b"},
	})
	if err != nil || !matched {
		t.Fatalf("Update matched=%v err=%v", matched, err)
	}

	got, _ := c.Get(ctx, id)
	if got.Name != "b" || got.Count != 2 || len(got.Members) != 2 || len(got.Notes) != 1 || got.Notes[0].Text != "hi" {
		t.Fatalf("unexpected doc %+v", got)
	}

	// $addToSet 幂等
	if _, err := c.Update(ctx, id, Mutation{AddToSet: map[string]any{"members": "u2"}}); err != nil {
		t.Fatal(err)
	}
	got, _ = c.Get(ctx, id)
	if len(got.Members) != 2 {
		t.Fatalf("addToSet duplicated: %v", got.Members)
	}

	if _, err := c.Update(ctx, id, Mutation{Pull: map[string]any{"members": "u1"}, Inc: map[string]int{"count": -1}}); err != nil {
		t.Fatal(err)
	}
	got, _ = c.Get(ctx, id)
	if len(got.Members) != 1 || got.Members[0] != "u2" || got.Count != 1 {
		t.Fatalf("unexpected doc after pull %+v", got)
	}
}

func TestMemoryGuards(t *testing.T) {
	_, c := newDocs(t)
	ctx := context.Background()
	id := mustInsert(t, c, doc{Members: []string{"u1"}, Notes: []note{}})

	tests := []struct {
		name  string
		guard Guard
		want  bool
	}{
		{"absent fails when member", Absent("members", "u1"), false},
		{"absent holds", Absent("members", "u9"), true},
		{"present holds", Present("members", "u1"), true},
		{"present fails", Present("members", "u9"), false},
		{"len below holds", LenBelow("members", 2), true},
		{"len below fails", LenBelow("members", 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := c.Update(ctx, id, Mutation{Set: map[string]any{"name": tt.name}, Guards: []Guard{tt.guard}})
			if err != nil {
				t.Fatal(err)
			}
			if matched != tt.want {
				t.Fatalf("matched = %v, want %v", matched, tt.want)
			}
			got, _ := c.Get(ctx, id)
			if (got.Name == tt.name) != tt.want {
				t.Fatalf("write applied = %v, want %v", got.Name == tt.name, tt.want)
			}
		})
	}

	if matched, _ := c.Update(ctx, "missing", Mutation{Set: map[string]any{"name": "x"}}); matched {
		t.Fatal("missing doc should not match")
	}
}

func TestMemoryFindOrderAndLimit(t *testing.T) {
	_, c := newDocs(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mustInsert(t, c, doc{ID: "a", At: base.Add(2 * time.Hour), Public: true})
	mustInsert(t, c, doc{ID: "b", At: base, Public: true})
	mustInsert(t, c, doc{ID: "c", At: base.Add(time.Hour), Public: false})
	mustInsert(t, c, doc{ID: "d", At: base.Add(3 * time.Hour), Public: true})

	got, err := c.Find(ctx, Where("public", true).Sort("at", false))
	if err != nil {
		t.Fatal(err)
	}
	if ids(got) != "bad" {
		t.Fatalf("asc order = %s, want bad", ids(got))
	}

	got, _ = c.Find(ctx, Query{OrderBy: "at", Desc: true, Limit: 2})
	if ids(got) != "da" {
		t.Fatalf("desc limit order = %s, want da", ids(got))
	}
}

func TestMemoryCommitBatch(t *testing.T) {
	s, c := newDocs(t)
	logs := NewMemoryCollection[doc](s, "logs")
	ctx := context.Background()

	mustInsert(t, c, doc{ID: "e1"})
	mustInsert(t, c, doc{ID: "e2"})
	mustInsert(t, logs, doc{ID: "l1", Name: "e1"})
	mustInsert(t, logs, doc{ID: "l2", Name: "e1"})
	mustInsert(t, logs, doc{ID: "l3", Name: "e2"})

	b := NewBatch().Delete("docs", "e1").DeleteWhere("logs", Cond{Field: "name", Value: "e1"})
	if err := s.Commit(ctx, b); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := c.Get(ctx, "e1"); !errors.Is(err, ErrNotFound) {
		t.Fatal("e1 should be deleted")
	}
	rest, _ := logs.Find(ctx, Query{})
	if ids(rest) != "l3" {
		t.Fatalf("remaining logs = %s, want l3", ids(rest))
	}

	if err := s.Commit(ctx, NewBatch().Delete("nope", "x")); !errors.Is(err, ErrUnknownCollect) {
		t.Fatalf("expected ErrUnknownCollect, got %v", err)
	}
}

func TestMemorySubscribeDeliversLatest(t *testing.T) {
	_, c := newDocs(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.Subscribe(ctx, Query{OrderBy: "_id"})
	if err != nil {
		t.Fatal(err)
	}

	first := recv(t, ch)
	if len(first.Items) != 0 {
		t.Fatalf("initial snapshot should be empty, got %d", len(first.Items))
	}

	mustInsert(t, c, doc{ID: "a"})
	mustInsert(t, c, doc{ID: "b"})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if ids(snap.Items) == "ab" {
				cancel()
				for range ch {
				}
				return
			}
		case <-deadline:
			t.Fatal("did not observe final snapshot")
		}
	}
}

func recv(t *testing.T, ch <-chan Snapshot[doc]) Snapshot[doc] {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for snapshot")
		return Snapshot[doc]{}
	}
}

func ids(docs []doc) string {
	out := ""
	for _, d := range docs {
		out += d.ID
	}
	return out
}
