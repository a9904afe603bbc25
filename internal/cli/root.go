package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"drvx/config"
	"drvx/internal/logger"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	log      *logger.ConsoleLogger
)

var rootCmd = &cobra.Command{
	Use:   "drvx",
	Short: "drvx - List disks, mount points and the files on them",
	Long: `drvx enumerates block devices and mounted filesystems on a Linux host and
recursively lists the files under a chosen mount point. Scans never follow
symlinks, never visit a directory twice and stop at a maximum depth.

Example usage:
  drvx list                                  # List disks and partitions
  drvx mounts                                # List mounted filesystems
  drvx scan /dev/sda1 --filter .txt          # List .txt files on a partition
  drvx scan /mnt/usb -o files.txt            # Save the file list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = loadDefaultConfig()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		log = logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.Logging.Level)
		return nil
	},
}

// loadDefaultConfig looks in the working directory first, then in the data
// directory.
func loadDefaultConfig() (*config.Config, error) {
	if wd, err := os.Getwd(); err == nil {
		for _, name := range []string{"drvx.yaml", filepath.Join(".drvx", "config.yaml")} {
			if _, err := os.Stat(filepath.Join(wd, name)); err == nil {
				return config.LoadFromDir(wd)
			}
		}
	}
	dir, err := config.DataDir()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.Load(filepath.Join(dir, "config.yaml"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./drvx.yaml or ~/.drvx/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func GetConfig() *config.Config {
	return cfg
}

func GetLogger() *logger.ConsoleLogger {
	return log
}
