package handlers

import (
	"net/http"
	"time"

	"ideahub/server/internal/database"
	"ideahub/server/internal/models"
	ws "ideahub/server/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateGroupForIdea opens the discussion group for one of the caller's
// public ideas. One group per idea.
func (h *Handlers) CreateGroupForIdea(c *gin.Context) {
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

	if !idea.IsPublic {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only public ideas can have a group"})
		return
	}
	if idea.GroupID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Idea already has a group"})
		return
	}

	group := models.IdeaGroup{IdeaID: idea.ID, Name: idea.Title}
	member := models.IdeaGroupMember{
		UserID:     userID,
		Role:       models.GroupRoleOwner,
		LastReadAt: time.Now(),
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		member.GroupID = group.ID
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&models.Idea{}).Where("id = ?", idea.ID).Update("group_id", group.ID).Error
	})
	if err != nil {
		h.logger.Error("create group", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// JoinGroup adds the caller as a member of a public idea's group.
func (h *Handlers) JoinGroup(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	var group models.IdeaGroup
	if err := h.db.First(&group, "id = ?", groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		h.logger.Error("get group", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var idea models.Idea
	if err := h.db.First(&idea, "id = ?", group.IdeaID).Error; err != nil || !idea.IsPublic {
		c.JSON(http.StatusForbidden, gin.H{"error": "Group is not open for joining"})
		return
	}

	// Joining twice is idempotent
	var existing models.IdeaGroupMember
	if err := h.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"member": existing})
		return
	}

	member := models.IdeaGroupMember{
		GroupID:    groupID,
		UserID:     userID,
		Role:       models.GroupRoleMember,
		LastReadAt: time.Now(),
	}
	if err := h.db.Create(&member).Error; err != nil {
		h.logger.Error("join group", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// ListGroups returns the caller's memberships with per-group unread counts
// and the summed total. Unread means createdAt strictly after the member's
// lastReadAt watermark from a different sender.
func (h *Handlers) ListGroups(c *gin.Context) {
	userID := c.GetString("user_id")

	var memberships []models.IdeaGroupMember
	if err := h.db.Scopes(database.OwnedBy(userID)).Find(&memberships).Error; err != nil {
		h.logger.Error("list memberships", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	var totalUnread int64
	response := make([]gin.H, 0, len(memberships))
	for i := range memberships {
		m := &memberships[i]

		var group models.IdeaGroup
		if err := h.db.First(&group, "id = ?", m.GroupID).Error; err != nil {
			continue
		}

		var unread int64
		if err := h.db.Model(&models.IdeaGroupMessage{}).
			Where("group_id = ? AND created_at > ? AND sender_id != ?", m.GroupID, m.LastReadAt, userID).
			Count(&unread).Error; err != nil {
			h.logger.Warn("count unread", "group_id", m.GroupID, "error", err)
			unread = 0
		}
		totalUnread += unread

		response = append(response, gin.H{
			"group":        group,
			"role":         m.Role,
			"last_read_at": m.LastReadAt,
			"unread_count": unread,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":       response,
		"total_unread": totalUnread,
	})
}

// memberOf loads the caller's membership row or writes the 403.
func (h *Handlers) memberOf(c *gin.Context, groupID, userID string) (*models.IdeaGroupMember, bool) {
	var member models.IdeaGroupMember
	err := h.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this group"})
		return nil, false
	}
	if err != nil {
		h.logger.Error("get membership", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	return &member, true
}

func (h *Handlers) GetGroupMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	if _, ok := h.memberOf(c, groupID, userID); !ok {
		return
	}

	var messages []models.IdeaGroupMessage
	if err := h.db.Preload("Sender").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		h.logger.Error("list messages", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	response := make([]gin.H, 0, len(messages))
	for i := range messages {
		response = append(response, gin.H{
			"id":          messages[i].ID,
			"sender_id":   messages[i].SenderID,
			"sender_name": messages[i].Sender.DisplayName(),
			"content":     messages[i].Content,
			"created_at":  messages[i].CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"messages": response})
}

type PostMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

func (h *Handlers) PostGroupMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	if _, ok := h.memberOf(c, groupID, userID); !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := models.IdeaGroupMessage{
		GroupID:  groupID,
		SenderID: userID,
		Content:  req.Content,
	}
	if err := h.db.Create(&message).Error; err != nil {
		h.logger.Error("create message", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	go h.notifyGroupMembers(groupID, userID, &message)

	c.JSON(http.StatusCreated, gin.H{"message": gin.H{
		"id":         message.ID,
		"sender_id":  message.SenderID,
		"content":    message.Content,
		"created_at": message.CreatedAt,
	}})
}

// notifyGroupMembers delivers a new message to the other members over the
// websocket hub and, for offline members, web push. Best-effort.
func (h *Handlers) notifyGroupMembers(groupID, senderID string, message *models.IdeaGroupMessage) {
	var members []models.IdeaGroupMember
	if err := h.db.Where("group_id = ? AND user_id != ?", groupID, senderID).Find(&members).Error; err != nil {
		h.logger.Warn("list members for notify", "error", err)
		return
	}

	notification := ws.Message{
		Type:    "group-message",
		From:    senderID,
		GroupID: groupID,
		Data: gin.H{
			"message_id": message.ID,
			"content":    message.Content,
			"created_at": message.CreatedAt,
		},
	}

	for i := range members {
		if h.hub.SendToUser(members[i].UserID, notification) {
			continue
		}
		h.sendPushToUser(members[i].UserID, "新消息", message.Content)
	}
}

type MarkReadResponse struct {
	LastReadAt time.Time `json:"last_read_at"`
}

// MarkGroupRead advances the caller's read watermark to now. The watermark
// never regresses: a stale client cannot move it backwards.
func (h *Handlers) MarkGroupRead(c *gin.Context) {
	userID := c.GetString("user_id")
	groupID := c.Param("id")

	member, ok := h.memberOf(c, groupID, userID)
	if !ok {
		return
	}

	now := time.Now()
	if now.After(member.LastReadAt) {
		if err := h.db.Model(&models.IdeaGroupMember{}).
			Where("id = ? AND last_read_at < ?", member.ID, now).
			Update("last_read_at", now).Error; err != nil {
			h.logger.Error("advance watermark", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
			return
		}
		member.LastReadAt = now
	}

	c.JSON(http.StatusOK, MarkReadResponse{LastReadAt: member.LastReadAt})
}
