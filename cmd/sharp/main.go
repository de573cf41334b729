package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/sharp/config"
	"github.com/dhamidi/sharp/telemetry"
)

const version = "0.1.0"

type globalFlags struct {
	configPath string
	verbosity  int
	logFile    string
	trace      string
}

var (
	flags    globalFlags
	settings = config.Default()
	shutdown func(context.Context) error
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "sharp",
		Short:        "C# refactorings on the command line and over LSP",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, args)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(context.Background())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "settings file (default: nearest "+config.FileName+")")
	pf.CountVarP(&flags.verbosity, "verbose", "v", "increase log verbosity")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.StringVar(&flags.trace, "trace", "", "write trace spans as JSON to this file")

	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newRefactorCmd())
	rootCmd.AddCommand(newCheckCmd())
	return rootCmd
}

// setup loads the settings and starts logging and tracing. Without
// --config the settings file is searched from the first file argument.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if flags.configPath != "" {
		settings, err = config.Load(flags.configPath)
	} else {
		settings, err = config.Find(configDir(args))
	}
	if err != nil {
		return err
	}

	verbosity := settings.Log.Verbosity + flags.verbosity
	logPath := settings.Log.Path
	if flags.logFile != "" {
		logPath = flags.logFile
	}
	if logPath != "" {
		commonlog.Configure(verbosity, &logPath)
	} else {
		commonlog.Configure(verbosity, nil)
	}

	if flags.trace != "" {
		f, err := os.Create(flags.trace)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		stop, err := telemetry.Init(telemetry.Config{ServiceVersion: version, Output: f})
		if err != nil {
			f.Close()
			return err
		}
		shutdown = func(ctx context.Context) error {
			defer f.Close()
			return stop(ctx)
		}
	}
	return nil
}

func configDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return filepath.Dir(args[0])
}

// solutionRoot is the directory whose sources form the workspace of path:
// the directory holding the settings file, or else the directory of path.
func solutionRoot(path string) string {
	if settings.Path != "" {
		return filepath.Dir(settings.Path)
	}
	return filepath.Dir(path)
}
