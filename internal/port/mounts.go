package port

import "drvx/internal/domain"

// MountService wraps the host's mount table and the mount/umount commands.
type MountService interface {
	ListMounts() ([]domain.MountRecord, error)

	FindMountPoint(device string) (string, error)

	// Mount mounts device under a private directory and returns that
	// directory. Failures are reported as *domain.MountError.
	Mount(device string) (string, error)

	Unmount(path string) bool
}

// BlockDeviceLister enumerates disks and their partitions.
type BlockDeviceLister interface {
	ListBlockDevices() ([]domain.BlockDevice, error)
}
