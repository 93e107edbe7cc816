package handlers

import (
	"net/http"

	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateLikeRequest struct {
	ToUserID string `json:"to_user_id" binding:"required"`
}

// CreateLike records a directed like. When the reverse non-ignored like
// already exists the pair is promoted to a match; the like write and the match
// write commit in one transaction.
func (h *Handlers) CreateLike(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ToUserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot like yourself"})
		return
	}

	var target models.User
	if err := h.db.First(&target, "id = ?", req.ToUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Duplicate likes are idempotent
	var existing models.UserLike
	if err := h.db.Where("from_user_id = ? AND to_user_id = ?", userID, req.ToUserID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"like": existing, "matched": false})
		return
	}

	var matched bool
	var match models.UserMatch
	like := models.UserLike{FromUserID: userID, ToUserID: req.ToUserID}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&like).Error; err != nil {
			return err
		}

		var reverse models.UserLike
		err := tx.Where("from_user_id = ? AND to_user_id = ? AND ignored = ?", req.ToUserID, userID, false).
			First(&reverse).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		user1, user2 := models.MatchPair(userID, req.ToUserID)
		var existingMatch models.UserMatch
		if err := tx.Where("user1_id = ? AND user2_id = ?", user1, user2).First(&existingMatch).Error; err == nil {
			match = existingMatch
			matched = true
			return nil
		}

		match = models.UserMatch{User1ID: user1, User2ID: user2}
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		matched = true
		return nil
	})
	if err != nil {
		h.logger.Error("create like", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create like"})
		return
	}

	response := gin.H{"like": like, "matched": matched}
	if matched {
		response["match"] = match
	}
	c.JSON(http.StatusCreated, response)
}

// IgnoreLike lets the invitee dismiss an incoming like. Only the recipient of
// the like can ignore it.
func (h *Handlers) IgnoreLike(c *gin.Context) {
	userID := c.GetString("user_id")
	likeID := c.Param("id")

	var like models.UserLike
	if err := h.db.Where("id = ? AND to_user_id = ?", likeID, userID).First(&like).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
			return
		}
		h.logger.Error("get like", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	like.Ignored = true
	if err := h.db.Save(&like).Error; err != nil {
		h.logger.Error("ignore like", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation ignored"})
}

// GetInvitations lists non-ignored likes directed at the caller whose sender
// is not already matched with the caller, newest first. The match-set
// exclusion is the one documented fetch-then-filter in the codebase: a like
// and a match are mutually exclusive visible states for a pair.
func (h *Handlers) GetInvitations(c *gin.Context) {
	userID := c.GetString("user_id")

	var likes []models.UserLike
	if err := h.db.Preload("FromUser").
		Where("to_user_id = ? AND ignored = ?", userID, false).
		Order("created_at DESC").
		Find(&likes).Error; err != nil {
		h.logger.Error("list likes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	// A failing match lookup counts as an empty match set, not an error
	matchedWith := make(map[string]bool)
	var matches []models.UserMatch
	if err := h.db.Where("user1_id = ? OR user2_id = ?", userID, userID).Find(&matches).Error; err == nil {
		for i := range matches {
			matchedWith[matches[i].Counterpart(userID)] = true
		}
	} else {
		h.logger.Warn("list matches for invitation filter", "error", err)
	}

	response := make([]gin.H, 0, len(likes))
	for i := range likes {
		if matchedWith[likes[i].FromUserID] {
			continue
		}
		response = append(response, gin.H{
			"id":         likes[i].ID,
			"from_user":  userResponse(&likes[i].FromUser),
			"created_at": likes[i].CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"invitations": response})
}

func (h *Handlers) GetMatches(c *gin.Context) {
	userID := c.GetString("user_id")

	var matches []models.UserMatch
	if err := h.db.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error; err != nil {
		h.logger.Error("list matches", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
		return
	}

	online := h.hub.GetOnlineUsers()

	response := make([]gin.H, 0, len(matches))
	for i := range matches {
		counterpartID := matches[i].Counterpart(userID)
		var counterpart models.User
		if err := h.db.First(&counterpart, "id = ?", counterpartID).Error; err != nil {
			// Deleted account: keep the match row out of the listing
			continue
		}
		response = append(response, gin.H{
			"id":         matches[i].ID,
			"user":       userResponse(&counterpart),
			"is_online":  online[counterpartID],
			"created_at": matches[i].CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"matches": response})
}
