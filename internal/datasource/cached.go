package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/rgehrsitz/lensquote/internal/store"
)

// SnapshotStore persists the last good envelope per sheet
type SnapshotStore interface {
	Save(ctx context.Context, snap store.Snapshot) error
	Get(ctx context.Context, sheetName string) (store.Snapshot, error)
}

// CachedSource stores every successful fetch and serves the stored snapshot, marked
// stale, when the live source fails.
type CachedSource struct {
	Source Source
	Store  SnapshotStore
	Logger logging.Logger
	Now    func() time.Time
}

// NewCachedSource wraps src with a snapshot store
func NewCachedSource(src Source, st SnapshotStore, logger logging.Logger) *CachedSource {
	return &CachedSource{Source: src, Store: st, Logger: logging.OrNop(logger), Now: time.Now}
}

// Fetch tries the live source first
func (c *CachedSource) Fetch(ctx context.Context, sheetName string) (*Envelope, error) {
	log := logging.OrNop(c.Logger)

	env, err := c.Source.Fetch(ctx, sheetName)
	if err == nil {
		c.save(ctx, sheetName, env)
		return env, nil
	}

	snap, serr := c.Store.Get(ctx, sheetName)
	if serr != nil {
		if errors.Is(serr, store.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Join(err, serr)
	}

	var cached Envelope
	if uerr := json.Unmarshal(snap.Payload, &cached); uerr != nil {
		return nil, errors.Join(err, fmt.Errorf("decode snapshot %s: %w", sheetName, uerr))
	}
	cached.Stale = true
	log.Warnf("live fetch of %s failed (%v); serving snapshot from %s", sheetName, err, snap.FetchedAt.Format(time.RFC3339))
	return &cached, nil
}

func (c *CachedSource) save(ctx context.Context, sheetName string, env *Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		logging.OrNop(c.Logger).Warnf("could not encode snapshot %s: %v", sheetName, err)
		return
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if err := c.Store.Save(ctx, store.Snapshot{SheetName: sheetName, Payload: payload, FetchedAt: now()}); err != nil {
		logging.OrNop(c.Logger).Warnf("could not save snapshot %s: %v", sheetName, err)
	}
}
