package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/quest-board/pkg/config"
)

// New builds the process logger. Level "debug" switches to zap's
// development preset; Format "console" forces human-readable output.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if level == "" {
		level = "info"
	}

	var zcfg zap.Config
	if level == "debug" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	switch strings.ToLower(cfg.Format) {
	case "console":
		zcfg.Encoding = "console"
	case "json":
		zcfg.Encoding = "json"
	}

	return zcfg.Build()
}
