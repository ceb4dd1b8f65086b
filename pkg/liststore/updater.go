package liststore

import (
	"context"
	"sync"

	"github.com/grahmind/careers-waitlist/internal/models"
)

// MutateFunc receives the current snapshot and returns the full list to write back.
type MutateFunc func(current Snapshot) ([]models.WaitlistRecord, error)

// Updater runs read-modify-write sequences against a ListStore one at a time.
// It only orders writers inside this process; other processes sharing the same
// document can still overwrite each other.
type Updater struct {
	store ListStore
	mu    sync.Mutex
}

func NewUpdater(store ListStore) *Updater {
	return &Updater{store: store}
}

// Store returns the underlying list store.
func (u *Updater) Store() ListStore {
	return u.store
}

// Update reads the document, applies mutate and writes the result back.
// Nothing is written when mutate fails.
func (u *Updater) Update(ctx context.Context, mutate MutateFunc) ([]models.WaitlistRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, err := u.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	next, err := mutate(current)
	if err != nil {
		return nil, err
	}

	if err := u.store.Write(ctx, next); err != nil {
		return nil, err
	}

	return next, nil
}

// Replace overwrites the document without reading it first.
func (u *Updater) Replace(ctx context.Context, records []models.WaitlistRecord) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.store.Write(ctx, records)
}
