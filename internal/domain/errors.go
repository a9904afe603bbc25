package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotMounted is returned when a device has no entry in the mount table.
	ErrNotMounted = errors.New("device is not mounted")
	// ErrInvalidTarget is returned for a scan target that is neither a
	// directory nor a device node.
	ErrInvalidTarget = errors.New("not a valid mount point or device")
	// ErrMountDeclined is returned when the user refuses to mount a device.
	ErrMountDeclined = errors.New("mount declined")
)

// MountError describes a failed mount attempt.
type MountError struct {
	Device string
	Target string
	Stderr string
	Err    error
}

func (e *MountError) Error() string {
	msg := fmt.Sprintf("failed to mount %s on %s", e.Device, e.Target)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MountError) Unwrap() error {
	return e.Err
}
