package logger

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextKey is the gin context key holding the request-scoped logger.
const ContextKey = "logger"

// New builds the process logger: JSON output in production, colored
// console output otherwise.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// FromGin returns the logger attached to the request, falling back to the
// global zap logger.
func FromGin(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(ContextKey); exists {
		if lg, ok := l.(*zap.Logger); ok {
			return lg
		}
	}
	return zap.L()
}
