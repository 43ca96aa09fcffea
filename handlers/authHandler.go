package handlers

import (
	"errors"
	"fmt"

	"clinicdesk/services"
	"clinicdesk/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginAdmin authenticates an admin by username.
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if err := utils.ValidateLogin(req.Username, req.Password); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.service.LoginAdmin(c.Request.Context(), req.Username, req.Password)
	h.respondLogin(c, identity, err)
}

// LoginDoctor authenticates a doctor by email.
func (h *AuthHandler) LoginDoctor(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if err := utils.ValidateLogin(req.Email, req.Password); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.service.LoginDoctor(c.Request.Context(), req.Email, req.Password)
	h.respondLogin(c, identity, err)
}

// LoginPatient authenticates a patient by email.
func (h *AuthHandler) LoginPatient(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if err := utils.ValidateLogin(req.Email, req.Password); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.service.LoginPatient(c.Request.Context(), req.Email, req.Password)
	h.respondLogin(c, identity, err)
}

func (h *AuthHandler) respondLogin(c *gin.Context, identity services.Identity, err error) {
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(401, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(identity.UserID, identity.Role)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to generate tokens: %v", err)})
		return
	}

	utils.SetAuthCookies(c, accessToken, refreshToken)
	c.JSON(200, gin.H{
		"user_id":      identity.UserID,
		"role":         identity.Role,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshToken issues a fresh token pair from a still-valid token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := c.DefaultQuery("accessToken", "")
	if token == "" {
		c.JSON(400, gin.H{"error": "access token is required"})
		return
	}

	claims, err := utils.ValidateToken(token, utils.RoleAdmin, utils.RoleDoctor, utils.RolePatient)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid access token"})
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(claims.UserID, claims.Role)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to generate tokens: %v", err)})
		return
	}

	utils.SetAuthCookies(c, accessToken, refreshToken)
	c.JSON(200, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Logoff logs the user out by clearing cookies.
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.Status(200)
}
