package history

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cgast/contest/pkg/harness"
)

const bucketRuns = "runs"

// Store is a bbolt-backed append-only log of suite runs, keyed by start
// time. It exists so a developer can ask what the last runs looked like
// without re-running anything.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the history database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records one suite run.
func (s *Store) Append(sum harness.Summary) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		data, err := json.Marshal(sum)
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}
		key := sum.Started.UTC().Format(time.RFC3339Nano)
		return b.Put([]byte(key), data)
	})
}

// Recent returns up to n of the most recent runs, newest first.
func (s *Store) Recent(n int) ([]harness.Summary, error) {
	var runs []harness.Summary
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketRuns)).Cursor()
		for k, v := c.Last(); k != nil && len(runs) < n; k, v = c.Prev() {
			var sum harness.Summary
			if err := json.Unmarshal(v, &sum); err != nil {
				return fmt.Errorf("unmarshal run %s: %w", string(k), err)
			}
			runs = append(runs, sum)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Prune drops the oldest runs beyond max. A max of zero or less keeps
// everything.
func (s *Store) Prune(max int) error {
	if max <= 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		total := b.Stats().KeyN
		c := b.Cursor()
		for k, _ := c.First(); k != nil && total > max; k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
			total--
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
