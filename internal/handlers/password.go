package handlers

import (
	"net/http"
	"time"

	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset token. The response is identical whether or
// not the account exists so the endpoint cannot be used for enumeration.
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			h.logger.Error("lookup user", "error", err)
		}
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
		return
	}

	token, err := gonanoid.New(32)
	if err != nil {
		h.logger.Error("generate reset token", "error", err)
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
		return
	}

	record := models.VerificationToken{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := h.db.Create(&record).Error; err != nil {
		h.logger.Error("store reset token", "error", err)
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
		return
	}

	// Delivery settings are read per request, never cached in process
	smtpHost := h.settingValue("smtp_host")
	h.logger.Info("password reset token issued",
		"email", user.Email, "expires_at", record.ExpiresAt, "smtp_configured", smtpHost != "")

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ResetPassword redeems a single-use token and rehashes the password.
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record models.VerificationToken
	if err := h.db.Where("token = ?", req.Token).First(&record).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if !record.Usable(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", record.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	hashStr := string(hash)

	now := time.Now()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password_hash", hashStr).Error; err != nil {
			return err
		}
		return tx.Model(&record).Update("used_at", now).Error
	})
	if err != nil {
		h.logger.Error("reset password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
