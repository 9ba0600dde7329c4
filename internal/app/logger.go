package app

import (
	"github.com/charlesng35/nebula/pkg/logger"
)

// ConfigureLogging installs the global logger described by the server
// settings.
func ConfigureLogging(cfg ServerConfig) error {
	return logger.Configure(cfg.LogLevel, cfg.LogFormat)
}
