package handlers

import (
	"encoding/json"

	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
)

// decodeStringList parses a JSON-encoded text column into a string list.
// Null, empty or malformed values become an empty list.
func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// encodeStringList serializes a string list for storage in a text column.
func encodeStringList(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// decodeJSONObject parses a JSON-encoded text column into a generic object,
// substituting nil for null/absent/malformed values.
func decodeJSONObject(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.DisplayName(),
		"role":       u.Role,
		"avatar_url": u.AvatarURL,
		"bio":        u.Bio,
		"skills":     decodeStringList(u.Skills),
		"interests":  decodeStringList(u.Interests),
		"created_at": u.CreatedAt,
	}
}

func ideaResponse(i *models.Idea) gin.H {
	return gin.H{
		"id":          i.ID,
		"user_id":     i.UserID,
		"title":       i.Title,
		"description": i.Description,
		"is_public":   i.IsPublic,
		"tags":        decodeStringList(i.Tags),
		"project_id":  i.ProjectID,
		"group_id":    i.GroupID,
		"created_at":  i.CreatedAt,
		"updated_at":  i.UpdatedAt,
	}
}

func projectResponse(p *models.Project) gin.H {
	return gin.H{
		"id":         p.ID,
		"user_id":    p.UserID,
		"idea_id":    p.IdeaID,
		"name":       p.Name,
		"stage":      p.Stage,
		"progress":   p.Progress,
		"risk_level": p.RiskLevel,
		"canvas":     decodeJSONObject(p.Canvas),
		"analysis":   decodeJSONObject(p.Analysis),
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}
