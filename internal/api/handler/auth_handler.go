package handler

import (
	"net/http"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(as *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// POST /auth/register
// Role luôn do server quyết định; client không tự chọn được role owner.
func (h *AuthHandler) Register(c *gin.Context) {
	var dto domain.RegisterUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu đăng ký không hợp lệ", "details": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Không thể đăng ký người dùng")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu đăng nhập không hợp lệ", "details": err.Error()})
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Lỗi đăng nhập")
		return
	}
	c.JSON(http.StatusOK, authResponse)
}

// GET /api/v1/me
// Trả về danh tính đang dùng cho các thao tác đặt/hủy chỗ.
func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity.UserID == "" {
		respondError(c, service.ErrIdentityRequired, "")
		return
	}
	c.JSON(http.StatusOK, identity)
}

// GET /api/v1/users (owner)
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Lỗi khi lấy danh sách người dùng")
		return
	}
	c.JSON(http.StatusOK, users)
}
