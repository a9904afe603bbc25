package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var keySchemaVersion = []byte("schema_version")

// SchemaVersion returns the stored schema version, 0 for a fresh database.
func (h *BoltHistory) SchemaVersion() (int, error) {
	var version int
	err := h.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &version); err != nil {
			version = 0
		}
		return nil
	})
	return version, err
}

// Migrate brings the database up to CurrentSchemaVersion. A database
// written by a newer version is rejected rather than rewritten.
func (h *BoltHistory) Migrate() error {
	version, err := h.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version > CurrentSchemaVersion {
		return fmt.Errorf("history database created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		if err := h.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return h.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(CurrentSchemaVersion)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}

func (h *BoltHistory) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		// v1 only adds the buckets, which NewBoltHistory already created.
		return nil
	default:
		return fmt.Errorf("no migration path")
	}
}
