package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/edu-bd/StockVisualizer/config"
	"github.com/edu-bd/StockVisualizer/middleware"
)

// AuthController handles admin authentication
type AuthController struct {
	cfg *config.Config
}

// NewAuthController creates a new auth controller
func NewAuthController(cfg *config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login verifies the admin password and issues a session token
// POST /api/admin/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ac.cfg.AdminPasswordHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin login not configured"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ac.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := middleware.IssueAdminToken(ac.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
