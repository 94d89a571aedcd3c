package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notpeelz/osc52/pkg/config"
)

const (
	copyAlias  = "term-copy"
	pasteAlias = "term-paste"
)

var (
	cfgFile string
	cfg     *config.Config

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "termclip",
	Short: "Terminal clipboard over OSC 52",
	Long: `Read and write the system clipboard through the terminal emulator using
OSC 52 escape sequences. Works over SSH, serial consoles and nested
multiplexers as long as the emulator honours clipboard requests.

When invoked as term-copy or term-paste the binary behaves as the copy or
paste subcommand.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.Log.ConfigureZerolog(os.Stderr)
		return nil
	},
}

func Execute() {
	rootCmd.SetArgs(commandArgs(os.Args[0], os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandArgs maps an invocation under one of the alias names onto the
// matching subcommand.
func commandArgs(argv0 string, args []string) []string {
	switch filepath.Base(argv0) {
	case copyAlias:
		return append([]string{copyCmd.Name()}, args...)
	case pasteAlias:
		return append([]string{pasteCmd.Name()}, args...)
	default:
		return args
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.termclip/config.yaml)")
	rootCmd.PersistentFlags().String("tty", "", "terminal device (default /dev/tty)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "give up waiting for the terminal after this long (0 waits forever)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace|debug|info|warn|error)")

	viper.BindPFlag("tty", rootCmd.PersistentFlags().Lookup("tty"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func GetConfig() *config.Config {
	return cfg
}
