package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"drvx/internal/domain"
	"drvx/internal/port"
)

var _ port.HistoryStore = (*BoltHistory)(nil)

var (
	bucketScans = []byte("scans")
	bucketMeta  = []byte("meta")
)

// BoltHistory keeps a log of past scans in a bbolt database.
type BoltHistory struct {
	db *bbolt.DB
}

func NewBoltHistory(path string) (*BoltHistory, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketScans, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	h := &BoltHistory{db: db}
	if err := h.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// scanKey sorts chronologically; the ID suffix keeps keys unique.
func scanKey(rec domain.ScanRecord) []byte {
	return []byte(rec.StartedAt.UTC().Format("20060102T150405.000000000Z") + "/" + rec.ID)
}

func (h *BoltHistory) Put(rec domain.ScanRecord) error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketScans).Put(scanKey(rec), data)
	})
}

func (h *BoltHistory) List(limit int) ([]domain.ScanRecord, error) {
	var recs []domain.ScanRecord
	err := h.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketScans).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(recs) >= limit {
				break
			}
			var rec domain.ScanRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			recs = append(recs, rec)
		}
		return nil
	})
	return recs, err
}

// Clear removes every scan record. Schema info is kept.
func (h *BoltHistory) Clear() error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketScans); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketScans)
		return err
	})
}

func (h *BoltHistory) Count() (int, error) {
	var n int
	err := h.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketScans).Stats().KeyN
		return nil
	})
	return n, err
}

func (h *BoltHistory) Close() error {
	return h.db.Close()
}
