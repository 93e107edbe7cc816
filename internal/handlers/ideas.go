package handlers

import (
	"net/http"

	"ideahub/server/internal/database"
	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateIdeaRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags"`
}

type UpdateIdeaRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=200"`
	Description *string   `json:"description"`
	IsPublic    *bool     `json:"is_public"`
	Tags        *[]string `json:"tags"`
	ProjectID   *string   `json:"project_id"`
}

func (h *Handlers) ListIdeas(c *gin.Context) {
	userID := c.GetString("user_id")

	var ideas []models.Idea
	if err := h.db.Scopes(database.OwnedBy(userID)).Order("created_at DESC").Find(&ideas).Error; err != nil {
		h.logger.Error("list ideas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
		return
	}

	response := make([]gin.H, 0, len(ideas))
	for i := range ideas {
		response = append(response, ideaResponse(&ideas[i]))
	}

	c.JSON(http.StatusOK, gin.H{"ideas": response})
}

func (h *Handlers) CreateIdea(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idea := models.Idea{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Tags:        encodeStringList(req.Tags),
	}

	if err := h.db.Create(&idea).Error; err != nil {
		h.logger.Error("create idea", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create idea"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"idea": ideaResponse(&idea)})
}

func (h *Handlers) GetIdea(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")

	var idea models.Idea
	if err := h.db.Scopes(database.OwnedBy(userID)).First(&idea, "id = ?", ideaID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		h.logger.Error("get idea", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"idea": ideaResponse(&idea)})
}

func (h *Handlers) UpdateIdea(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")

	var idea models.Idea
	if err := h.db.Scopes(database.OwnedBy(userID)).First(&idea, "id = ?", ideaID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		h.logger.Error("get idea", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var req UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		idea.Title = *req.Title
	}
	if req.Description != nil {
		idea.Description = *req.Description
	}
	if req.IsPublic != nil {
		idea.IsPublic = *req.IsPublic
	}
	if req.Tags != nil {
		idea.Tags = encodeStringList(*req.Tags)
	}
	if req.ProjectID != nil {
		// Only a project the caller owns can be linked
		var project models.Project
		if err := h.db.Scopes(database.OwnedBy(userID)).First(&project, "id = ?", *req.ProjectID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		idea.ProjectID = req.ProjectID
	}

	if err := h.db.Save(&idea).Error; err != nil {
		h.logger.Error("update idea", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update idea"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"idea": ideaResponse(&idea)})
}

// ListPublicIdeas is the one idea listing without an owner predicate: it
// returns ideas explicitly flagged public, with owner display names.
func (h *Handlers) ListPublicIdeas(c *gin.Context) {
	var ideas []models.Idea
	if err := h.db.Preload("User").Where("is_public = ?", true).Order("created_at DESC").Find(&ideas).Error; err != nil {
		h.logger.Error("list public ideas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
		return
	}

	response := make([]gin.H, 0, len(ideas))
	for i := range ideas {
		item := ideaResponse(&ideas[i])
		item["owner_name"] = ideas[i].User.DisplayName()
		response = append(response, item)
	}

	c.JSON(http.StatusOK, gin.H{"ideas": response})
}
