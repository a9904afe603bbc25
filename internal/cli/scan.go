package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"drvx/config"
	"drvx/internal/adapter/fs"
	"drvx/internal/adapter/mounts"
	"drvx/internal/adapter/output"
	"drvx/internal/adapter/store"
	"drvx/internal/port"
	"drvx/internal/usecase"
)

var (
	scanFilter   string
	scanOutput   string
	scanMaxDepth int
	scanPattern  string
	scanExcludes []string
	scanYes      bool
	scanNoRecord bool
	scanVerbose  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <device|mountpoint>",
	Short: "List files under a partition or mount point",
	Long: `Recursively list files under a mounted filesystem. A device node such as
/dev/sdb1 is resolved through the mount table; if it is not mounted you are
asked whether to mount it, and it is unmounted again when the scan ends.

Unreadable directories and symlinks are skipped without failing the scan.

Examples:
  drvx scan /dev/sda1 --filter .txt
  drvx scan /mnt/usb --maxdepth 3 -o files.txt
  drvx scan /media/disk --pattern "*.jp*g" --exclude "**/.Trash-*/**"`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanFilter, "filter", "f", "", "only include files with this extension (e.g. .txt)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write results to a text file (default: stdout)")
	scanCmd.Flags().IntVar(&scanMaxDepth, "maxdepth", -1, "maximum recursion depth (default from config, 20)")
	scanCmd.Flags().StringVar(&scanPattern, "pattern", "", "glob matched against file names (default \"*\")")
	scanCmd.Flags().StringSliceVar(&scanExcludes, "exclude", nil, "doublestar pattern of paths to skip, relative to the scan root")
	scanCmd.Flags().BoolVarP(&scanYes, "yes", "y", false, "mount unmounted devices without asking")
	scanCmd.Flags().BoolVar(&scanNoRecord, "no-history", false, "do not record this scan in the history database")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "log every skipped directory (same as --log-level debug)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()
	if scanVerbose {
		log.SetLevel("debug")
	}

	req := usecase.ScanRequest{
		Target:   args[0],
		Pattern:  cfg.Scan.Pattern,
		Filter:   cfg.Scan.Filter,
		MaxDepth: cfg.Scan.MaxDepth,
		Includes: cfg.Scan.Includes,
		Excludes: append(append([]string(nil), cfg.Scan.Excludes...), scanExcludes...),
		Output:   scanOutput,
	}
	if cmd.Flags().Changed("filter") {
		req.Filter = scanFilter
	}
	if cmd.Flags().Changed("pattern") {
		req.Pattern = scanPattern
	}
	if cmd.Flags().Changed("maxdepth") {
		if scanMaxDepth < 0 {
			return fmt.Errorf("--maxdepth must be zero or greater, got %d", scanMaxDepth)
		}
		req.MaxDepth = scanMaxDepth
	}
	if req.MaxDepth < 0 {
		req.MaxDepth = fs.DefaultMaxDepth
	}

	var history port.HistoryStore
	if cfg.History.Enabled && !scanNoRecord {
		h, err := openHistory()
		if err != nil {
			log.Warnf("scan history disabled: %v", err)
		} else {
			defer h.Close()
			history = h
		}
	}

	confirm := func(prompt string) bool {
		if scanYes {
			return true
		}
		return askYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt)
	}

	svc := mounts.NewService(cfg.Mount, nil)
	scanUC := usecase.NewScanUseCase(svc, fs.TreeWalker{}, history, log, confirm)

	out := cmd.OutOrStdout()
	var sink func(string) error
	var fileSink *output.FileSink
	var bar *progressbar.ProgressBar
	var stdout *bufio.Writer

	if scanOutput != "" {
		fileSink = output.NewFileSink(scanOutput)
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription("[cyan]Scanning[reset]"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		sink = func(path string) error {
			bar.Add(1)
			return fileSink.Add(path)
		}
	} else {
		stdout = bufio.NewWriter(out)
		sink = func(path string) error {
			_, err := fmt.Fprintln(stdout, path)
			return err
		}
	}

	result, err := scanUC.Scan(req, sink)
	if bar != nil {
		bar.Finish()
	}
	if stdout != nil {
		if ferr := stdout.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	if err != nil {
		return err
	}

	if fileSink != nil {
		if err := fileSink.Flush(); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(out, "Saved to %s\n", scanOutput)
	}

	fmt.Fprintf(out, "\nTotal scanned files: %d\n", result.Files)
	if result.Skipped > 0 {
		log.Infof("%d directories skipped (run with --verbose for details)", result.Skipped)
	}
	return nil
}

// askYesNo prints prompt and reads an answer. An empty answer means yes.
func askYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [Y/n]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

func openHistory() (*store.BoltHistory, error) {
	path, err := GetConfig().HistoryDBPath()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}
	return store.NewBoltHistory(path)
}
