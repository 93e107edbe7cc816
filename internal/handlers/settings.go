package handlers

import (
	"net/http"

	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type UpdateProfileRequest struct {
	Name      *string   `json:"name" binding:"omitempty,max=100"`
	Bio       *string   `json:"bio" binding:"omitempty,max=2000"`
	AvatarURL *string   `json:"avatar_url" binding:"omitempty,max=255"`
	Skills    *[]string `json:"skills"`
	Interests *[]string `json:"interests"`
}

func (h *Handlers) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": userResponse(&user)})
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		user.Name = req.Name
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.Skills != nil {
		user.Skills = encodeStringList(*req.Skills)
	}
	if req.Interests != nil {
		user.Interests = encodeStringList(*req.Interests)
	}

	if err := h.db.Save(&user).Error; err != nil {
		h.logger.Error("update profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": userResponse(&user)})
}

// settingValue reads one runtime setting row. Settings are re-read on demand
// rather than cached long-term.
func (h *Handlers) settingValue(key string) string {
	var setting models.Setting
	if err := h.db.First(&setting, "key = ?", key).Error; err != nil {
		return ""
	}
	return setting.Value
}

func (h *Handlers) GetSettings(c *gin.Context) {
	var settings []models.Setting
	if err := h.db.Find(&settings).Error; err != nil {
		h.logger.Error("list settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}

	c.JSON(http.StatusOK, gin.H{"settings": values})
}

func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}

	for key, value := range req {
		setting := models.Setting{Key: key, Value: value}
		if err := h.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error; err != nil {
			h.logger.Error("upsert setting", "key", key, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}
