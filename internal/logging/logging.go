package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a zap logger for the given mode ("production" for JSON output,
// anything else for the development console encoder) and installs it as the
// global logger. Output goes to stdout unless outputs names other sinks.
func New(mode string, outputs ...string) (*zap.Logger, error) {
	var zapConfig zap.Config
	if mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}
	if len(outputs) > 0 {
		zapConfig.OutputPaths = outputs
	}

	logger, err := zapConfig.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
