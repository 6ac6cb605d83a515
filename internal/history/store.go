package history

import "context"

// Store persists recent conversations. Implementations hold at most a
// fixed number of conversations; saving a new one past the bound evicts
// the oldest by creation time (FIFO, not LRU — re-saving an old
// conversation does not protect it from eviction).
type Store interface {
	// Save inserts the conversation or replaces it if the ID exists.
	Save(ctx context.Context, conv *Conversation) error
	// List returns summaries of all stored conversations, newest first.
	List(ctx context.Context) ([]Summary, error)
	// Load returns the full conversation, or ErrNotFound.
	Load(ctx context.Context, id string) (*Conversation, error)
	// Delete removes a conversation; deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}
