package handlers

import (
	"encoding/json"
	"net/http"

	"ideahub/server/internal/database"
	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name      string                 `json:"name" binding:"required,max=200"`
	IdeaID    *string                `json:"idea_id"`
	Stage     string                 `json:"stage" binding:"omitempty,max=32"`
	RiskLevel string                 `json:"risk_level" binding:"omitempty,max=16"`
	Canvas    map[string]interface{} `json:"canvas"`
}

type UpdateProjectRequest struct {
	Name      *string                 `json:"name" binding:"omitempty,max=200"`
	Stage     *string                 `json:"stage" binding:"omitempty,max=32"`
	Progress  *int                    `json:"progress" binding:"omitempty,min=0,max=100"`
	RiskLevel *string                 `json:"risk_level" binding:"omitempty,max=16"`
	Canvas    *map[string]interface{} `json:"canvas"`
	Analysis  *map[string]interface{} `json:"analysis"`
}

func (h *Handlers) ListProjects(c *gin.Context) {
	userID := c.GetString("user_id")

	var projects []models.Project
	if err := h.db.Scopes(database.OwnedBy(userID)).Order("created_at DESC").Find(&projects).Error; err != nil {
		h.logger.Error("list projects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	response := make([]gin.H, 0, len(projects))
	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	c.JSON(http.StatusOK, gin.H{"projects": response})
}

func (h *Handlers) CreateProject(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		UserID:    userID,
		Name:      req.Name,
		Stage:     req.Stage,
		RiskLevel: req.RiskLevel,
	}

	if req.Canvas != nil {
		data, _ := json.Marshal(req.Canvas)
		project.Canvas = string(data)
	}

	if req.IdeaID != nil {
		// The linked idea must belong to the caller
		var idea models.Idea
		if err := h.db.Scopes(database.OwnedBy(userID)).First(&idea, "id = ?", *req.IdeaID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		project.IdeaID = req.IdeaID
	}

	if err := h.db.Create(&project).Error; err != nil {
		h.logger.Error("create project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	// Backlink the idea to its project
	if project.IdeaID != nil {
		h.db.Model(&models.Idea{}).
			Scopes(database.OwnedBy(userID)).
			Where("id = ?", *project.IdeaID).
			Update("project_id", project.ID)
	}

	c.JSON(http.StatusCreated, gin.H{"project": projectResponse(&project)})
}

func (h *Handlers) GetProject(c *gin.Context) {
	userID := c.GetString("user_id")
	projectID := c.Param("id")

	var project models.Project
	if err := h.db.Scopes(database.OwnedBy(userID)).First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.logger.Error("get project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": projectResponse(&project)})
}

func (h *Handlers) UpdateProject(c *gin.Context) {
	userID := c.GetString("user_id")
	projectID := c.Param("id")

	var project models.Project
	if err := h.db.Scopes(database.OwnedBy(userID)).First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.logger.Error("get project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Stage != nil {
		project.Stage = *req.Stage
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}
	if req.RiskLevel != nil {
		project.RiskLevel = *req.RiskLevel
	}
	if req.Canvas != nil {
		data, _ := json.Marshal(*req.Canvas)
		project.Canvas = string(data)
	}
	if req.Analysis != nil {
		data, _ := json.Marshal(*req.Analysis)
		project.Analysis = string(data)
	}

	if err := h.db.Save(&project).Error; err != nil {
		h.logger.Error("update project", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": projectResponse(&project)})
}
