package handlers

import (
	"net/http"

	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SetupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"omitempty,max=100"`
}

// GetSetupStatus reports whether the platform already has an admin.
func (h *Handlers) GetSetupStatus(c *gin.Context) {
	var adminCount int64
	if err := h.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		h.logger.Error("count admins", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"initialized": adminCount > 0})
}

// Setup bootstraps the first admin account. Once any admin exists every
// subsequent call is rejected regardless of payload.
func (h *Handlers) Setup(c *gin.Context) {
	var adminCount int64
	if err := h.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		h.logger.Error("count admins", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if adminCount > 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Platform is already initialized"})
		return
	}

	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Setup failed"})
		return
	}
	hashStr := string(hash)

	// Promote an existing account with this email, otherwise create one.
	var user models.User
	err = h.db.Where("email = ?", req.Email).First(&user).Error
	switch {
	case err == nil:
		user.Role = models.RoleAdmin
		user.PasswordHash = &hashStr
		if req.Name != "" {
			user.Name = &req.Name
		}
		if err := h.db.Save(&user).Error; err != nil {
			h.logger.Error("promote admin", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Setup failed"})
			return
		}
	case err == gorm.ErrRecordNotFound:
		user = models.User{
			Email:        req.Email,
			PasswordHash: &hashStr,
			Role:         models.RoleAdmin,
		}
		if req.Name != "" {
			user.Name = &req.Name
		}
		if err := h.db.Create(&user).Error; err != nil {
			h.logger.Error("create admin", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Setup failed"})
			return
		}
	default:
		h.logger.Error("lookup user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Platform initialized",
		"user":    userResponse(&user),
	})
}
