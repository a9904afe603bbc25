package mounts

import (
	"fmt"
	"os"
	"path/filepath"

	"drvx/config"
	"drvx/internal/domain"
	"drvx/internal/port"
)

var _ port.MountService = (*Service)(nil)

// Service implements port.MountService on top of the kernel mount table and
// the mount/umount commands.
type Service struct {
	mountsFile string
	exclude    map[string]bool
	mountBase  string
	useSudo    bool
	runner     CommandRunner
}

func NewService(cfg config.MountConfig, runner CommandRunner) *Service {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Service{
		mountsFile: cfg.MountsFile,
		exclude:    cfg.ExcludedFsTypes(),
		mountBase:  cfg.MountBase,
		useSudo:    cfg.UseSudo,
		runner:     runner,
	}
}

func (s *Service) ListMounts() ([]domain.MountRecord, error) {
	recs, err := ReadMountTable(s.mountsFile, s.exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to read mount table: %w", err)
	}
	return recs, nil
}

// FindMountPoint returns the mount point of the first record for device.
func (s *Service) FindMountPoint(device string) (string, error) {
	recs, err := s.ListMounts()
	if err != nil {
		return "", err
	}
	for _, r := range recs {
		if r.Device == device {
			return r.MountPoint, nil
		}
	}
	return "", fmt.Errorf("%s: %w", device, domain.ErrNotMounted)
}

// TargetDir is where Mount puts device.
func (s *Service) TargetDir(device string) string {
	return filepath.Join(s.mountBase, "drvx-"+filepath.Base(device))
}

func (s *Service) Mount(device string) (string, error) {
	target := s.TargetDir(device)
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", &domain.MountError{Device: device, Target: target, Err: err}
	}

	stderr, err := s.run("mount", device, target)
	if err != nil {
		return "", &domain.MountError{Device: device, Target: target, Stderr: stderr, Err: err}
	}
	return target, nil
}

func (s *Service) Unmount(path string) bool {
	_, err := s.run("umount", path)
	return err == nil
}

func (s *Service) run(name string, args ...string) (string, error) {
	if s.useSudo {
		return s.runner.Run("sudo", append([]string{name}, args...)...)
	}
	return s.runner.Run(name, args...)
}
