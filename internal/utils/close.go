package utils

import (
	"io"

	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// CloseFunc adapts close methods without an error result, like pgxpool.Pool.Close.
type CloseFunc func()

func (f CloseFunc) Close() error {
	f()
	return nil
}

// CloseLogged closes c during shutdown and logs the outcome under name.
func CloseLogged(c io.Closer, name string, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("component", name), logger.Error(err))
		return
	}
	log.Info("closed cleanly", logger.String("component", name))
}
