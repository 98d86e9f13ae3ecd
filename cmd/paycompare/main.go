/*
main.go - Application entry point

PURPOSE:
  Command-line front end of the pay scheme comparison. Loads configuration,
  builds the logger and dispatches to a subcommand.

COMMANDS:
  serve     Start the HTTP API (serve.go)
  compare   Run one comparison and print it (compare.go)
  presets   List the historical variants of the old scheme (compare.go)

CONFIGURATION:
  --config/-c names a YAML file. Without it paycompare.yaml is searched in
  ., $HOME/.paycompare and /etc/paycompare. Every key can be overridden
  with a PAYCOMPARE_ environment variable, e.g. PAYCOMPARE_SERVER_PORT.

EXAMPLES:
  paycompare compare --weeks 12
  paycompare compare --from 2025-01-06 --to 2025-01-12 --preset saturday-premium-2.11
  paycompare serve -c ./paycompare.yaml

SEE ALSO:
  - config/config.go: Configuration keys and defaults
  - api/server.go: Router configuration
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/warp/pay-compare/config"
)

var (
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd wires the subcommands. The configuration is loaded once before
// any of them runs and shared through cfg.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "paycompare",
		Short:         "Compare the old and new weekend pay schemes",
		Long:          "Compute and compare net pay under the old and new compensation schemes over weeks or a date range",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err == nil {
					return nil
				}
			}
			logger = initLogger(cfg.Log.Level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(presetsCmd())

	return rootCmd
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	return zapLevel
}

// initLogger builds the console logger. Output goes to stderr so that
// compare output on stdout stays machine readable.
func initLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func initFileLogger(logFile, level string) (*zap.Logger, error) {
	w := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		parseLevel(level),
	)

	return zap.New(core, zap.AddCaller()), nil
}
