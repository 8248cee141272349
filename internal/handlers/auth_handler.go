package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mindbridge-api/internal/config"
	"github.com/BruksfildServices01/mindbridge-api/internal/dto"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/logger"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
	"github.com/BruksfildServices01/mindbridge-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	now    func() time.Time
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, now: time.Now}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"max=20"`
	Role     string `json:"role" binding:"required,oneof=student counsellor"`

	// counsellor only
	Timezone    string `json:"timezone"`
	SlotMinutes int    `json:"slot_minutes" binding:"gte=0,lte=480"`
	Bio         string `json:"bio"`
	Specialties string `json:"specialties" binding:"max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainAllowed(email, h.config.AllowedEmailDomains) {
		httperr.BadRequest(c, "email_domain_not_allowed", "Registration is limited to institutional email addresses.")
		return
	}
	if h.config.IsProduction() && !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not accept mail.")
		return
	}

	role := models.Role(req.Role)

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = timezone.Default()
	}
	if role == models.RoleCounsellor && !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Timezone must be an IANA zone name.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create the account.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_taken")
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if role != models.RoleCounsellor {
			return nil
		}

		slot := req.SlotMinutes
		if slot == 0 {
			slot = h.config.DefaultSlotMinutes
		}
		return tx.Create(&models.CounsellorProfile{
			UserID:      user.ID,
			Timezone:    tz,
			SlotMinutes: slot,
			Bio:         req.Bio,
			Specialties: req.Specialties,
			Active:      true,
		}).Error
	})
	if err != nil {
		if httperr.IsBusiness(err, "email_taken") || httperr.IsExclusionConflict(err) {
			httperr.Conflict(c, "email_taken", "An account with this email already exists.")
			return
		}
		logger.FromGin(c).Error("register failed", zap.Error(err))
		httperr.Internal(c, "failed_to_create_user", "Could not create the account.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not sign the session token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  dto.UserFrom(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Email or password is incorrect.")
			return
		}
		logger.FromGin(c).Error("login lookup failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "Could not sign in.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not sign the session token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  dto.UserFrom(&user),
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	ttl := h.config.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := h.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
