package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"errand-service/internal/middleware"
	"errand-service/internal/models"
	"errand-service/internal/repositories"
	"errand-service/internal/telemetry"
)

// AuthHandler manages account endpoints: join, login, deactivation.
type AuthHandler struct {
	userRepo repositories.UserRepository
	secret   []byte
	audit    *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, secret []byte, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, secret: secret, audit: audit}
}

// Join handles POST /auth/join.
func (h *AuthHandler) Join(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required,email"`
		Password      string `json:"password" binding:"required,min=8"`
		Name          string `json:"name" binding:"required"`
		Gender        string `json:"gender" binding:"required,oneof=M F O"`
		Address       string `json:"address"`
		AddressDetail string `json:"address_detail"`
		ContactStart  string `json:"contact_start"`
		ContactEnd    string `json:"contact_end"`
		PaymentMethod string `json:"payment_method"`
		ImagePath     string `json:"image_path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	user, err := h.userRepo.CreateUser(c.Request.Context(), models.User{
		Email:         req.Email,
		PasswordHash:  string(hash),
		Name:          req.Name,
		Gender:        req.Gender,
		Address:       req.Address,
		AddressDetail: req.AddressDetail,
		ContactStart:  req.ContactStart,
		ContactEnd:    req.ContactEnd,
		PaymentMethod: req.PaymentMethod,
		ImagePath:     req.ImagePath,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "email already taken")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not create user")
		return
	}

	h.emitAudit(c, "INFO", "user joined")
	respond(c, http.StatusCreated, user)
}

// Login handles POST /auth/login and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.Deactivated {
		respondError(c, http.StatusUnauthorized, "account unavailable")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.NewToken(h.secret, user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	respond(c, http.StatusOK, gin.H{"token": token, "user_id": user.ID})
}

// DeactivateMe handles DELETE /users/me. The row survives; the email is
// replaced with a unique sentinel so the uniqueness constraint still holds.
func (h *AuthHandler) DeactivateMe(c *gin.Context) {
	userID := c.GetInt("userID")

	anonymized := fmt.Sprintf("deleted-%s@invalid", uuid.NewString())
	if err := h.userRepo.DeactivateUser(c.Request.Context(), userID, anonymized); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not deactivate user")
		return
	}

	h.emitAudit(c, "INFO", "user deactivated")
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
