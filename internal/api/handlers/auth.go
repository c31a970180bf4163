package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/services/users"
)

type AuthHandler struct {
	users *users.Service
}

func NewAuthHandler(usersService *users.Service) *AuthHandler {
	return &AuthHandler{users: usersService}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	pair, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			unauthorized(c, "invalid credentials")
			return
		}
		fail(c, err)
		return
	}
	ok(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}

	pair, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			unauthorized(c, "invalid refresh token")
			return
		}
		fail(c, err)
		return
	}
	ok(c, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}

	if err := h.users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			unauthorized(c, "invalid refresh token")
			return
		}
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "logged out"})
}
