package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/govlens/govchat/internal/db"
)

// Both implementations must satisfy the same contract, so every test runs
// against both.
func stores(t *testing.T, max int) map[string]Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(max),
		"sqlite": NewSQLiteStore(database, max),
	}
}

func conv(title string, createdAt time.Time) *Conversation {
	return &Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: createdAt,
		Messages: []Message{
			{ID: uuid.New().String(), Role: RoleUser, Content: "find table customers", Timestamp: createdAt},
			{ID: uuid.New().String(), Role: RoleAssistant, Content: "found 2 tables", Timestamp: createdAt},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, store := range stores(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := conv("table search", time.Now().UTC())
			if err := store.Save(ctx, c); err != nil {
				t.Fatal(err)
			}

			loaded, err := store.Load(ctx, c.ID)
			if err != nil {
				t.Fatal(err)
			}
			if loaded.Title != "table search" {
				t.Errorf("title lost: %q", loaded.Title)
			}
			if len(loaded.Messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(loaded.Messages))
			}
			if loaded.Messages[0].Role != RoleUser || loaded.Messages[1].Role != RoleAssistant {
				t.Error("message order or roles lost")
			}
		})
	}
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	for name, store := range stores(t, 10) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(context.Background(), "no-such-id")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	for name, store := range stores(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := conv("first", time.Now().UTC())
			if err := store.Save(ctx, c); err != nil {
				t.Fatal(err)
			}

			c.Title = "renamed"
			c.Messages = append(c.Messages, Message{ID: uuid.New().String(), Role: RoleUser, Content: "more"})
			if err := store.Save(ctx, c); err != nil {
				t.Fatal(err)
			}

			loaded, err := store.Load(ctx, c.ID)
			if err != nil {
				t.Fatal(err)
			}
			if loaded.Title != "renamed" || len(loaded.Messages) != 3 {
				t.Errorf("update lost: title=%q messages=%d", loaded.Title, len(loaded.Messages))
			}

			summaries, err := store.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(summaries) != 1 {
				t.Errorf("re-saving must not duplicate, got %d entries", len(summaries))
			}
		})
	}
}

func TestFIFOEvictionAtBound(t *testing.T) {
	const bound = 3
	for name, store := range stores(t, bound) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().UTC().Add(-time.Hour)

			var ids []string
			for i := 0; i < bound+2; i++ {
				c := conv(fmt.Sprintf("conversation %d", i), base.Add(time.Duration(i)*time.Minute))
				ids = append(ids, c.ID)
				if err := store.Save(ctx, c); err != nil {
					t.Fatal(err)
				}
			}

			summaries, err := store.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(summaries) != bound {
				t.Fatalf("bound not enforced: %d entries, want %d", len(summaries), bound)
			}

			// The two oldest by creation time are gone, the rest survive.
			for _, evicted := range ids[:2] {
				if _, err := store.Load(ctx, evicted); !errors.Is(err, ErrNotFound) {
					t.Errorf("oldest conversation %s should be evicted", evicted)
				}
			}
			for _, kept := range ids[2:] {
				if _, err := store.Load(ctx, kept); err != nil {
					t.Errorf("conversation %s should survive: %v", kept, err)
				}
			}
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	for name, store := range stores(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().UTC().Add(-time.Hour)
			old := conv("old", base)
			recent := conv("recent", base.Add(30*time.Minute))
			if err := store.Save(ctx, old); err != nil {
				t.Fatal(err)
			}
			if err := store.Save(ctx, recent); err != nil {
				t.Fatal(err)
			}

			summaries, err := store.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(summaries) != 2 {
				t.Fatalf("expected 2 summaries, got %d", len(summaries))
			}
			if summaries[0].Title != "recent" {
				t.Errorf("expected most recently updated first, got %q", summaries[0].Title)
			}
			if summaries[0].MessageCount != 2 {
				t.Errorf("message count missing: %+v", summaries[0])
			}
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	for name, store := range stores(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := conv("doomed", time.Now().UTC())
			if err := store.Save(ctx, c); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, c.ID); err != nil {
				t.Fatal(err)
			}
			if _, err := store.Load(ctx, c.ID); !errors.Is(err, ErrNotFound) {
				t.Error("conversation should be gone")
			}
			if err := store.Delete(ctx, c.ID); err != nil {
				t.Errorf("deleting a missing id must not error: %v", err)
			}
		})
	}
}
