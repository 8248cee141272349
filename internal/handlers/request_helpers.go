package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/logger"
	"github.com/BruksfildServices01/mindbridge-api/internal/middleware"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

// actorFrom reads the caller placed in the context by AuthMiddleware.
func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: c.MustGet(middleware.ContextUserID).(uint),
		Role:   c.MustGet(middleware.ContextUserRole).(models.Role),
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func optionalUintQuery(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	id := uint(v)
	return &id, nil
}

// optionalTimeQuery accepts RFC 3339 instants. Offsets are mandatory so the
// instant is never ambiguous.
func optionalTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", name)
	}
	return &t, nil
}

func splitQuery(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// respondError writes a usecase error. Unexpected failures are logged with
// the request logger before the generic 500 goes out.
func respondError(c *gin.Context, err error, fallback string) {
	if httperr.CodeOf(err) == "" {
		logger.FromGin(c).Error(fallback, zap.Error(err))
	}
	httperr.FromError(c, err, fallback)
}
