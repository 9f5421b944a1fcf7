// Package main implements the mozok CLI: a host that loads a .qsf
// script, runs its worlds' worker thread for --wait-timeout-ms, and
// reports quest-engine events to stdout or an export file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mozok/internal/config"
	"mozok/internal/logging"
)

var (
	verbose         bool
	pauseOnError    bool
	serverName      string
	disableInit     bool
	exportTimeline  string
	waitTimeoutMS   int
	watch           bool
	configPath      string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mozok [script.qsf]",
	Short: "mozok runs a quest-engine script against one or more worlds",
	Long: `mozok loads a .qsf script, creates the worlds it declares, applies
its projects and init actions, then drives the server's worker thread
for --wait-timeout-ms. The run lasts the full timeout; it does not end
early when every quest has reached a terminal state.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws, _ := os.Getwd()
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		scriptPath := args[0]
		abs, err := filepath.Abs(scriptPath)
		if err != nil {
			return fmt.Errorf("resolve script path: %w", err)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if serverName != "" {
			cfg.Server.Name = serverName
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		opts := runOptions{
			scriptPath:     abs,
			cfg:            cfg,
			pauseOnError:   pauseOnError,
			disableInit:    disableInit,
			exportTimeline: exportTimeline,
			waitTimeout:    time.Duration(waitTimeoutMS) * time.Millisecond,
			logger:         logger,
		}

		if watch {
			return runWatch(opts)
		}
		return runScript(opts)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&pauseOnError, "pause-on-error", false, "stop applying init actions at the first error")
	rootCmd.PersistentFlags().StringVar(&serverName, "server-name", "", "override the configured server name")
	rootCmd.PersistentFlags().BoolVar(&disableInit, "disable-init", false, "load projects but skip the script's init actions")
	rootCmd.PersistentFlags().StringVar(&exportTimeline, "export-timeline", "", "write every engine message to this file once the run ends")
	rootCmd.PersistentFlags().IntVar(&waitTimeoutMS, "wait-timeout-ms", 10000, "milliseconds to let the worker thread run before reporting")
	rootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "re-run the whole script whenever it changes on disk")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "mozok.yaml", "path to the YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}
