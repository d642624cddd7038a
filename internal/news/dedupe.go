package news

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
)

// Headlines stay marked long enough to cover the feed's lookback window.
const defaultTTL = 72 * time.Hour

// DedupeStore remembers which headlines were already posted, so restarts do
// not repost recent news. Keys expire after 72 hours.
type DedupeStore struct {
	db  *buntdb.DB
	ttl time.Duration
}

// OpenDedupeStore opens (or creates) the store. Pass ":memory:" for an
// ephemeral store.
func OpenDedupeStore(path string) (*DedupeStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dedupe store: %w", err)
	}
	return &DedupeStore{db: db, ttl: defaultTTL}, nil
}

// Seen reports whether the headline id was already posted.
func (s *DedupeStore) Seen(id string) (bool, error) {
	seen := false
	err := s.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(key(id))
		if err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return nil
			}
			return err
		}
		seen = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("dedupe lookup: %w", err)
	}
	return seen, nil
}

// MarkPosted records the headline id with a TTL.
func (s *DedupeStore) MarkPosted(id string) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key(id), time.Now().UTC().Format(time.RFC3339), &buntdb.SetOptions{
			Expires: true,
			TTL:     s.ttl,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("dedupe mark: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *DedupeStore) Close() error {
	return s.db.Close()
}

func key(id string) string { return "news:" + id }
