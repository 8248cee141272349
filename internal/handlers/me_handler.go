package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mindbridge-api/internal/dto"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/middleware"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		httperr.Unauthorized(c, "user_not_in_context", "Missing authenticated user.")
		return
	}

	userID, ok := userIDVal.(uint)
	if !ok {
		httperr.Unauthorized(c, "invalid_user_id_type", "Malformed authenticated user.")
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Account no longer exists.")
			return
		}
		httperr.Internal(c, "failed_to_load_user", "Could not load the account.")
		return
	}

	resp := gin.H{"user": dto.UserFrom(&user)}

	if user.Role == models.RoleCounsellor {
		var profile models.CounsellorProfile
		err := h.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
		switch {
		case err == nil:
			resp["counsellor_profile"] = profile
		case !errors.Is(err, gorm.ErrRecordNotFound):
			httperr.Internal(c, "failed_to_load_profile", "Could not load the counsellor profile.")
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
