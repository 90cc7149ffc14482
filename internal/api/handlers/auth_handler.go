package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/auth"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/services"
)

// AuthHandler handles staff login.
type AuthHandler struct {
	cfg         *config.Config
	userService services.IUserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, userService services.IUserService) *AuthHandler {
	return &AuthHandler{cfg: cfg, userService: userService}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/auth/login. A wrong email and a wrong password get
// the same response so the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.IsAdmin, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int(h.cfg.JwtTTL.Seconds()),
	})
}
