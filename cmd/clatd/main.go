package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.aporeto.io/clatd"
	"go.aporeto.io/clatd/internal/args"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// envLogLevel selects the log level. The command line carries only the
// translation parameters, so verbosity comes from the environment.
const envLogLevel = "CLATD_LOG_LEVEL"

func setupLogging() error {

	level := zapcore.InfoLevel
	if v := os.Getenv(envLogLevel); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid log level %s: %s", v, err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.DisableStacktrace = true

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("unable to initialize the logger: %s", err)
	}

	zap.ReplaceGlobals(logger)
	return nil
}

func main() {

	if err := setupLogging(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := args.Parse(os.Args[1:])
	if err != nil {
		if err == args.ErrHelp {
			fmt.Print(args.Usage())
			os.Exit(0)
		}
		zap.L().Error("Invalid command line", zap.Error(err))
		fmt.Fprint(os.Stderr, args.Usage())
		os.Exit(1)
	}

	if err := clatd.New(cfg).Run(context.Background()); err != nil {
		var derr *clatd.Error
		if errors.As(err, &derr) {
			zap.L().Error("Clat daemon failed", zap.String("kind", derr.Kind.String()), zap.Error(err))
		} else {
			zap.L().Error("Clat daemon failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
