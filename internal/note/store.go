package note

import "context"

// Store is the CRUD contract consumed by the editor and the list.
type Store interface {
	List(ctx context.Context) ([]Note, error)
	Create(ctx context.Context, f Fields) (Note, error)
	Update(ctx context.Context, id string, p Patch) (Note, error)
	Delete(ctx context.Context, id string) error
}

// Watcher is implemented by stores that can report external changes.
// The returned channel is closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Closer is implemented by stores holding resources.
type Closer interface {
	Close() error
}

// Restorer is implemented by stores that keep deleted notes and can bring
// them back.
type Restorer interface {
	Restore(ctx context.Context, id string) (Note, error)
}

// Purger is implemented by stores that can erase deleted notes for good.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}
