package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"drvx/internal/adapter/mounts"
)

var mountsJSON bool

var mountsCmd = &cobra.Command{
	Use:   "mounts",
	Short: "List mounted filesystems",
	Long: `List the entries of the kernel mount table, leaving out pseudo
filesystems such as proc, sysfs and tmpfs (see mount.exclude_fs_types).`,
	Args: cobra.NoArgs,
	RunE: runMounts,
}

func init() {
	rootCmd.AddCommand(mountsCmd)
	mountsCmd.Flags().BoolVar(&mountsJSON, "json", false, "print records as JSON")
}

func runMounts(cmd *cobra.Command, args []string) error {
	recs, err := mounts.NewService(GetConfig().Mount, nil).ListMounts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if mountsJSON {
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(recs) == 0 {
		fmt.Fprintln(out, "No mounted filesystems found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tMOUNT POINT\tTYPE")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Device, r.MountPoint, r.FsType)
	}
	return tw.Flush()
}
