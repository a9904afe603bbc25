package mounts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"drvx/internal/domain"
	"drvx/internal/port"
)

var _ port.BlockDeviceLister = (*SysBlock)(nil)

const sectorSize = 512

// SysBlock lists disks and partitions from a sysfs block directory.
type SysBlock struct {
	dir          string
	skipPrefixes []string
}

func NewSysBlock(dir string, skipPrefixes []string) *SysBlock {
	return &SysBlock{dir: dir, skipPrefixes: skipPrefixes}
}

// ListBlockDevices returns every disk under the sysfs directory except the
// ones whose name starts with a skipped prefix (loop, ram, zram, ...).
func (s *SysBlock) ListBlockDevices() ([]domain.BlockDevice, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found, are you on Linux?", s.dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.dir, err)
	}

	var devices []domain.BlockDevice
	for _, entry := range entries {
		name := entry.Name()
		if s.skipped(name) {
			continue
		}

		devDir := filepath.Join(s.dir, name)
		// Entries in /sys/block are symlinks into /sys/devices.
		if info, err := os.Stat(devDir); err != nil || !info.IsDir() {
			continue
		}

		devices = append(devices, domain.BlockDevice{
			Name:       name,
			Path:       "/dev/" + name,
			Partitions: partitions(devDir, name),
		})
	}
	return devices, nil
}

func (s *SysBlock) skipped(name string) bool {
	for _, p := range s.skipPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func partitions(devDir, devName string) []domain.Partition {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil
	}

	var parts []domain.Partition
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, devName) {
			continue
		}
		parts = append(parts, domain.Partition{
			Name:      name,
			Path:      "/dev/" + name,
			SizeBytes: readSectors(filepath.Join(devDir, name, "size")) * sectorSize,
		})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })
	return parts
}

// readSectors returns the sector count stored in a sysfs size file, or 0.
func readSectors(path string) int64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
