package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/imgtool/imgtool/util"
)

var (
	flagYes bool
	// Config is the global tool configuration
	Config = GlobalConfig{}
)

// GlobalConfig is the global tool configuration, read from
// ~/.imgtool/config.yml when present.
type GlobalConfig struct {
	// MountBase is where temporary mount points for the compare commands
	// are created; empty means the system temporary directory.
	MountBase string `yaml:"mount-base"`
	// Editor is the interactive partition editor launched by shrink.
	Editor string `yaml:"editor"`
	// Rsync overrides the rsync binary used by the compare commands.
	Rsync string `yaml:"rsync"`
	// Unattended suppresses all confirmation prompts.
	Unattended bool `yaml:"unattended"`
}

func readConfig() {
	cfgPath := filepath.Join(os.Getenv("HOME"), ".imgtool", "config.yml")
	cfgBytes, err := os.ReadFile(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		fmt.Printf("Failed to read %q\n", cfgPath)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(cfgBytes, &Config); err != nil {
		fmt.Printf("Failed to parse %q\n", cfgPath)
		os.Exit(1)
	}
}

func defaultEditor() string {
	if Config.Editor != "" {
		return Config.Editor
	}
	return "parted"
}

func defaultRsync() string {
	if Config.Rsync != "" {
		return Config.Rsync
	}
	return "rsync"
}

func unattended() bool {
	return flagYes || Config.Unattended
}

func newCmd() *cobra.Command {
	var (
		flagQuiet       bool
		flagVerbose     int
		flagVerboseName = "verbose"
	)
	cmd := &cobra.Command{
		Use:               "imgtool",
		Short:             "inspect and manipulate raw disk images",
		Args:              cobra.ArbitraryArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			readConfig()

			// Set up logging
			return util.SetupLogging(flagQuiet, flagVerbose, cmd.Flag(flagVerboseName).Changed)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// no arguments and unknown commands both print usage
			return cmd.Help()
		},
	}

	cmd.AddCommand(partitionsCmd())
	cmd.AddCommand(losetupCmd())
	cmd.AddCommand(mountCmd())
	cmd.AddCommand(umountCmd())
	cmd.AddCommand(shrinkCmd())
	cmd.AddCommand(fsckCmd())
	cmd.AddCommand(compareFsCmd())
	cmd.AddCommand(compareImgCmd())
	cmd.AddCommand(versionCmd())

	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet execution")
	cmd.PersistentFlags().IntVarP(&flagVerbose, flagVerboseName, "v", 1, "Verbosity of logging: 0 = quiet, 1 = info, 2 = debug, 3 = trace. Default is info. Setting it explicitly will create structured logging lines.")
	cmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")

	return cmd
}
