/*
main.go - Application entry point

PURPOSE:
  The daybook command: serves the calendar API and prints ledger reports
  from the terminal.

COMMANDS:
  serve     HTTP server with graceful shutdown
  totals    Totals of the configured seed, balance colored by sign
  payments  Payment days of the configured seed
  settle    The one-off settlement figure

CONFIGURATION:
  --config points at a YAML file; without it daybook.yaml is searched in
  ., $HOME/.daybook and /etc/daybook. A .env file in the working directory
  is loaded first, so DAYBOOK_* variables can live there.

LOGGING:
  zap, to stderr by default. With log.file set, JSON lines go to a
  rotating file (lumberjack) instead.

SEE ALSO:
  - config/config.go: keys and defaults
  - api/server.go: routes
*/
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/warp/daybook/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "daybook",
		Short:         "Work calendar and payment ledger",
		Long:          "Track rest, work, advance and payment days and the balance they add up to",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err = newLogger(cfg.Log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(serveCmd(), totalsCmd(), paymentsCmd(), settleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, Error("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := lc.ZapLevel()
	if err != nil {
		return nil, err
	}

	if lc.File == "" {
		zc := zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.Level = zap.NewAtomicLevelAt(level)
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		return zc.Build()
	}

	logWriter := &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		level,
	)
	return zap.New(core), nil
}
