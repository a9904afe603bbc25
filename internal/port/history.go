package port

import "drvx/internal/domain"

type HistoryStore interface {
	Put(rec domain.ScanRecord) error

	// List returns at most limit records, newest first. limit <= 0 means all.
	List(limit int) ([]domain.ScanRecord, error)

	Clear() error

	Close() error
}
