package handlers

import (
	"net/http"
	"sync"
	"time"

	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetPlatformStats issues the three count queries as a parallel fan-out and
// joins them before responding. A failing count reports zero.
func (h *Handlers) GetPlatformStats(c *gin.Context) {
	var userCount, ideaCount, matchCount int64

	var wg sync.WaitGroup
	count := func(dst *int64, model interface{}, name string) {
		defer wg.Done()
		if err := h.db.Model(model).Count(dst).Error; err != nil {
			h.logger.Warn("count "+name, "error", err)
			*dst = 0
		}
	}

	wg.Add(3)
	go count(&userCount, &models.User{}, "users")
	go count(&ideaCount, &models.Idea{}, "ideas")
	go count(&matchCount, &models.UserMatch{}, "matches")
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{
		"users":   userCount,
		"ideas":   ideaCount,
		"matches": matchCount,
	})
}

func (h *Handlers) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		h.logger.Error("list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	response := make([]gin.H, 0, len(users))
	for i := range users {
		response = append(response, userResponse(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{"users": response})
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

func (h *Handlers) UpdateUserRole(c *gin.Context) {
	targetID := c.Param("id")

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("get user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	user.Role = req.Role
	if err := h.db.Save(&user).Error; err != nil {
		h.logger.Error("update role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}

// BulkCreateGroups opens groups for every public idea that has none yet.
// Per-item failures are tallied, never aborting the batch.
func (h *Handlers) BulkCreateGroups(c *gin.Context) {
	var ideas []models.Idea
	if err := h.db.Where("is_public = ? AND group_id IS NULL", true).Find(&ideas).Error; err != nil {
		h.logger.Error("list ungrouped ideas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
		return
	}

	var created, failed int
	for i := range ideas {
		idea := &ideas[i]
		err := h.db.Transaction(func(tx *gorm.DB) error {
			group := models.IdeaGroup{IdeaID: idea.ID, Name: idea.Title}
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			member := models.IdeaGroupMember{
				GroupID:    group.ID,
				UserID:     idea.UserID,
				Role:       models.GroupRoleOwner,
				LastReadAt: time.Now(),
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			return tx.Model(&models.Idea{}).Where("id = ?", idea.ID).Update("group_id", group.ID).Error
		})
		if err != nil {
			h.logger.Warn("bulk group create", "idea_id", idea.ID, "error", err)
			failed++
			continue
		}
		created++
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "failed": failed})
}
