// dxctl deploys the DutchX contracts and approves tokens on the exchange.
package main

import (
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/gnosis/dxctl/pkg/commands"
	"github.com/gnosis/dxctl/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

func main() {
	level := zapcore.InfoLevel
	if lvl, ok := os.LookupEnv("DX_LOG_LEVEL"); ok {
		if err := level.Set(lvl); err != nil {
			os.Stderr.WriteString("invalid DX_LOG_LEVEL: " + err.Error() + "\n")
			os.Exit(2)
		}
	}

	cfg := logger.Config{Level: level, Development: os.Getenv("DX_LOG_DEV") != ""}
	lggr, err := cfg.New()
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := commands.New(lggr).Root(Version).Execute(); err != nil {
		lggr.Errorw("Command failed", "err", err)
		_ = lggr.Sync()
		os.Exit(1)
	}

	_ = lggr.Sync()
}
