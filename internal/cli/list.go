package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"drvx/internal/adapter/mounts"
	"drvx/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available disks and partitions",
	Long: `List block devices from /sys/block with their partitions, sizes and,
when mounted, their mount points. Loop, ram and zram devices are hidden.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	devices, err := mounts.NewSysBlock(cfg.Mount.SysBlockDir, cfg.Mount.SkipDevicePrefix).ListBlockDevices()
	if err != nil {
		return err
	}

	// Mount points are decoration; a missing table still lists devices.
	recs, err := mounts.NewService(cfg.Mount, nil).ListMounts()
	if err != nil {
		GetLogger().Warnf("%v", err)
	}

	renderDevices(cmd.OutOrStdout(), devices, recs)
	return nil
}

func renderDevices(w io.Writer, devices []domain.BlockDevice, recs []domain.MountRecord) {
	mountPoints := make(map[string]string, len(recs))
	for _, r := range recs {
		if _, ok := mountPoints[r.Device]; !ok {
			mountPoints[r.Device] = r.MountPoint
		}
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w, "Available disks and partitions:")
	fmt.Fprintln(w)
	for _, dev := range devices {
		bold.Fprintln(w, dev.Path)
		for _, p := range dev.Partitions {
			line := fmt.Sprintf("  └─ %s (%s)", p.Path, humanize.IBytes(uint64(p.SizeBytes)))
			if mp, ok := mountPoints[p.Path]; ok {
				line += " on " + cyan.Sprint(mp)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}
}
