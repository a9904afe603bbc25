package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"drvx/internal/adapter/fs"
	"drvx/internal/domain"
	"drvx/internal/logger"
	"drvx/internal/port"
)

// ScanUseCase resolves a device or mount point to a directory and lists the
// files below it.
type ScanUseCase struct {
	mounts  port.MountService
	walker  port.FileWalker
	history port.HistoryStore
	log     *logger.ConsoleLogger
	confirm func(prompt string) bool
	now     func() time.Time
}

// NewScanUseCase creates a new scan use case. walker defaults to
// fs.TreeWalker and history may be nil. confirm is asked before mounting a
// device that is not mounted yet; a nil confirm never mounts.
func NewScanUseCase(
	mounts port.MountService,
	walker port.FileWalker,
	history port.HistoryStore,
	log *logger.ConsoleLogger,
	confirm func(prompt string) bool,
) *ScanUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if walker == nil {
		walker = fs.TreeWalker{}
	}
	return &ScanUseCase{
		mounts:  mounts,
		walker:  walker,
		history: history,
		log:     log,
		confirm: confirm,
		now:     time.Now,
	}
}

// ScanRequest describes one scan.
type ScanRequest struct {
	Target   string // device node or directory
	Pattern  string
	Filter   string // extension, with or without the leading dot
	MaxDepth int
	Includes []string
	Excludes []string
	Output   string // recorded in history only
}

// ScanResult contains the results of a scan.
type ScanResult struct {
	ID          string
	Root        string
	Files       int
	Skipped     int
	AutoMounted bool
	Unmounted   bool
	Duration    time.Duration
}

// Target is a resolved scan root.
type Target struct {
	Root        string
	AutoMounted bool
}

// Resolve turns a user supplied directory or /dev node into a directory to
// walk, mounting the device if needed and allowed.
func (u *ScanUseCase) Resolve(target string) (*Target, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("no partition or mount point given: %w", domain.ErrInvalidTarget)
	}

	resolved := &Target{}
	switch {
	case fs.IsDir(target):
		resolved.Root = target
	case strings.HasPrefix(target, "/dev/") && fs.Exists(target):
		mp, err := u.mounts.FindMountPoint(target)
		if err == nil {
			resolved.Root = mp
			break
		}
		if !errors.Is(err, domain.ErrNotMounted) {
			return nil, err
		}

		u.log.Infof("'%s' is not mounted.", target)
		if u.confirm == nil || !u.confirm("Would you like to attempt mounting it?") {
			return nil, fmt.Errorf("%s: %w", target, domain.ErrMountDeclined)
		}
		mp, err = u.mounts.Mount(target)
		if err != nil {
			return nil, err
		}
		u.log.Infof("Mounted %s to %s", target, mp)
		resolved.Root = mp
		resolved.AutoMounted = true
	default:
		return nil, fmt.Errorf("'%s': %w", target, domain.ErrInvalidTarget)
	}

	if !fs.IsDir(resolved.Root) {
		u.release(resolved)
		return nil, fmt.Errorf("unable to use %s: not a directory", resolved.Root)
	}
	canon, err := fs.Resolve(resolved.Root)
	if err != nil {
		u.release(resolved)
		return nil, fmt.Errorf("failed to resolve %s: %w", resolved.Root, err)
	}
	resolved.Root = canon
	return resolved, nil
}

// release unmounts a target this use case mounted. It reports success.
func (u *ScanUseCase) release(t *Target) bool {
	if t == nil || !t.AutoMounted {
		return false
	}
	u.log.Infof("Unmounting %s...", t.Root)
	if !u.mounts.Unmount(t.Root) {
		u.log.Warnf("Failed to unmount %s", t.Root)
		return false
	}
	u.log.Infof("Unmounted successfully.")
	return true
}

// Scan walks the resolved target and hands every matching file to sink.
// An error from sink stops the walk and is returned. A device mounted by
// Scan is unmounted before it returns.
func (u *ScanUseCase) Scan(req ScanRequest, sink func(path string) error) (result *ScanResult, err error) {
	if !fs.ValidPattern(orDefault(req.Pattern, "*")) {
		return nil, fmt.Errorf("invalid pattern: %q", req.Pattern)
	}

	target, err := u.Resolve(req.Target)
	if err != nil {
		return nil, err
	}

	result = &ScanResult{
		ID:          uuid.NewString(),
		Root:        target.Root,
		AutoMounted: target.AutoMounted,
	}
	defer func() {
		result.Unmounted = u.release(target)
	}()

	started := u.now()
	u.log.Debugf("scanning %s (pattern=%s filter=%s maxdepth=%d)", target.Root, orDefault(req.Pattern, "*"), req.Filter, req.MaxDepth)
	stream := u.walker.Walk(target.Root, port.WalkOptions{
		Pattern:  req.Pattern,
		MaxDepth: req.MaxDepth,
		Includes: req.Includes,
		Excludes: req.Excludes,
		OnSkip: func(path, reason string, err error) {
			if err != nil {
				u.log.Debugf("skipped %s (%s): %v", path, reason, err)
				return
			}
			u.log.Debugf("skipped %s (%s)", path, reason)
		},
	})
	files := fs.FilterExt(stream, req.Filter)
	for {
		path, ok := files.Next()
		if !ok {
			break
		}
		if err := sink(path); err != nil {
			return result, fmt.Errorf("failed to consume %s: %w", path, err)
		}
		result.Files++
	}
	result.Skipped = stream.Skipped()
	result.Duration = u.now().Sub(started)

	if u.history != nil {
		rec := domain.ScanRecord{
			ID:          result.ID,
			Target:      req.Target,
			Root:        result.Root,
			Filter:      fs.NormalizeExt(req.Filter),
			Pattern:     req.Pattern,
			MaxDepth:    req.MaxDepth,
			Files:       result.Files,
			Skipped:     result.Skipped,
			AutoMounted: result.AutoMounted,
			Output:      req.Output,
			StartedAt:   started,
			Duration:    result.Duration,
		}
		if err := u.history.Put(rec); err != nil {
			u.log.Warnf("failed to record scan history: %v", err)
		}
	}

	return result, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
