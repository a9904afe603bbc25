package mounts

import (
	"io"
	"os"

	"github.com/moby/sys/mountinfo"

	"drvx/internal/domain"
)

// excludeFilter skips entries whose filesystem type is in exclude.
func excludeFilter(exclude map[string]bool) mountinfo.FilterFunc {
	return func(m *mountinfo.Info) (skip, stop bool) {
		return exclude[m.FSType], false
	}
}

func toRecords(infos []*mountinfo.Info) []domain.MountRecord {
	records := make([]domain.MountRecord, 0, len(infos))
	for _, m := range infos {
		records = append(records, domain.MountRecord{
			Device:     m.Source,
			MountPoint: m.Mountpoint,
			FsType:     m.FSType,
			Options:    m.Options,
		})
	}
	return records
}

// ParseMountInfo reads a /proc/<pid>/mountinfo style table. Records whose
// filesystem type is in exclude are dropped.
func ParseMountInfo(r io.Reader, exclude map[string]bool) ([]domain.MountRecord, error) {
	infos, err := mountinfo.GetMountsFromReader(r, excludeFilter(exclude))
	if err != nil {
		return nil, err
	}
	return toRecords(infos), nil
}

// ReadMountTable returns the mount table. An empty path reads the live
// table of the current process; otherwise path is parsed as a mountinfo
// file and a missing file yields an empty table.
func ReadMountTable(path string, exclude map[string]bool) ([]domain.MountRecord, error) {
	if path == "" {
		infos, err := mountinfo.GetMounts(excludeFilter(exclude))
		if err != nil {
			return nil, err
		}
		return toRecords(infos), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return ParseMountInfo(f, exclude)
}
