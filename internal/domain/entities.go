package domain

import "time"

// MountRecord is one line of the kernel mount table.
type MountRecord struct {
	Device     string `json:"device"`
	MountPoint string `json:"mount_point"`
	FsType     string `json:"fs_type"`
	Options    string `json:"options,omitempty"`
}

type BlockDevice struct {
	Name       string
	Path       string
	Partitions []Partition
}

type Partition struct {
	Name      string
	Path      string
	SizeBytes int64
}

// ScanRecord is what the history store remembers about one scan.
type ScanRecord struct {
	ID          string        `json:"id"`
	Target      string        `json:"target"`
	Root        string        `json:"root"`
	Filter      string        `json:"filter,omitempty"`
	Pattern     string        `json:"pattern,omitempty"`
	MaxDepth    int           `json:"max_depth"`
	Files       int           `json:"files"`
	Skipped     int           `json:"skipped"`
	AutoMounted bool          `json:"auto_mounted,omitempty"`
	Output      string        `json:"output,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}
