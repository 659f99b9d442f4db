package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greendrake/storefront/internal/auth"
	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/services"
)

// RestAdminAuthHandler handles admin login.
type RestAdminAuthHandler struct {
	cfg         *config.Config
	authService services.IAuthService
}

// NewRestAdminAuthHandler creates a new RestAdminAuthHandler.
func NewRestAdminAuthHandler(cfg *config.Config, authService services.IAuthService) *RestAdminAuthHandler {
	return &RestAdminAuthHandler{cfg: cfg, authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Login handles POST /v1/admin/login.
func (h *RestAdminAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	admin, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := auth.GenerateJWT(admin.ID, admin.Email, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":    admin.ID.String(),
			"email": admin.Email,
			"name":  admin.Name,
		},
	})
}
