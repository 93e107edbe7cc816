package handlers

import (
	"net/http"
	"testing"
	"time"

	"ideahub/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createGroupWithMembers(t *testing.T, owner *models.User, members ...*models.User) *models.IdeaGroup {
	t.Helper()

	idea := models.Idea{UserID: owner.ID, Title: "Shared idea", IsPublic: true}
	require.NoError(t, e.db.Create(&idea).Error)

	group := models.IdeaGroup{IdeaID: idea.ID, Name: idea.Title}
	require.NoError(t, e.db.Create(&group).Error)
	require.NoError(t, e.db.Model(&models.Idea{}).Where("id = ?", idea.ID).Update("group_id", group.ID).Error)

	ownerMember := models.IdeaGroupMember{
		GroupID: group.ID, UserID: owner.ID,
		Role: models.GroupRoleOwner, LastReadAt: time.Now(),
	}
	require.NoError(t, e.db.Create(&ownerMember).Error)

	for _, m := range members {
		member := models.IdeaGroupMember{
			GroupID: group.ID, UserID: m.ID,
			Role: models.GroupRoleMember, LastReadAt: time.Now(),
		}
		require.NoError(t, e.db.Create(&member).Error)
	}

	return &group
}

func TestCreateGroupForIdea(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice@example.com", models.RoleUser)

	idea := models.Idea{UserID: alice.ID, Title: "Open idea", IsPublic: true}
	require.NoError(t, env.db.Create(&idea).Error)

	w := env.request(t, http.MethodPost, "/api/ideas/"+idea.ID+"/group", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var reloaded models.Idea
	require.NoError(t, env.db.First(&reloaded, "id = ?", idea.ID).Error)
	require.NotNil(t, reloaded.GroupID)

	// The creator becomes the owner member
	var member models.IdeaGroupMember
	require.NoError(t, env.db.Where("group_id = ? AND user_id = ?", *reloaded.GroupID, alice.ID).First(&member).Error)
	assert.Equal(t, models.GroupRoleOwner, member.Role)

	// One group per idea
	w = env.request(t, http.MethodPost, "/api/ideas/"+idea.ID+"/group", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGroupRequiresPublicIdea(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice@example.com", models.RoleUser)

	idea := models.Idea{UserID: alice.ID, Title: "Private idea"}
	require.NoError(t, env.db.Create(&idea).Error)

	w := env.request(t, http.MethodPost, "/api/ideas/"+idea.ID+"/group", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.count(t, &models.IdeaGroup{}))
}

func TestGroupMessagesMembersOnly(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", models.RoleUser)
	_, strangerToken := env.createUser(t, "stranger@example.com", models.RoleUser)

	group := env.createGroupWithMembers(t, alice)

	w := env.request(t, http.MethodGet, "/api/groups/"+group.ID+"/messages", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, "/api/groups/"+group.ID+"/messages", strangerToken, map[string]interface{}{
		"content": "let me in",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, env.count(t, &models.IdeaGroupMessage{}))
}

func TestPostAndListGroupMessages(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice@example.com", models.RoleUser)
	bob, bobToken := env.createUser(t, "bob@example.com", models.RoleUser)

	group := env.createGroupWithMembers(t, alice, bob)

	w := env.request(t, http.MethodPost, "/api/groups/"+group.ID+"/messages", aliceToken, map[string]interface{}{
		"content": "hello group",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/groups/"+group.ID+"/messages", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	messages := decodeBody(t, w)["messages"].([]interface{})
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]interface{})
	assert.Equal(t, "hello group", msg["content"])
	assert.Equal(t, models.DefaultDisplayName, msg["sender_name"])
}

func TestUnreadCounts(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", models.RoleUser)
	bob, bobToken := env.createUser(t, "bob@example.com", models.RoleUser)

	group := env.createGroupWithMembers(t, alice, bob)

	// Pin Bob's watermark, then two newer messages from Alice and one of
	// Bob's own after it.
	watermark := time.Now().Add(-time.Hour)
	require.NoError(t, env.db.Model(&models.IdeaGroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		UpdateColumn("last_read_at", watermark).Error)

	for i, delta := range []time.Duration{-30 * time.Minute, -10 * time.Minute} {
		msg := models.IdeaGroupMessage{
			GroupID: group.ID, SenderID: alice.ID,
			Content: "update", CreatedAt: time.Now().Add(delta),
		}
		require.NoError(t, env.db.Create(&msg).Error, "message %d", i)
	}
	own := models.IdeaGroupMessage{
		GroupID: group.ID, SenderID: bob.ID,
		Content: "mine", CreatedAt: time.Now().Add(-5 * time.Minute),
	}
	require.NoError(t, env.db.Create(&own).Error)

	// A message at/before the watermark does not count
	old := models.IdeaGroupMessage{
		GroupID: group.ID, SenderID: alice.ID,
		Content: "old", CreatedAt: watermark.Add(-time.Minute),
	}
	require.NoError(t, env.db.Create(&old).Error)

	w := env.request(t, http.MethodGet, "/api/groups", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	groups := body["groups"].([]interface{})
	require.Len(t, groups, 1)
	assert.EqualValues(t, 2, groups[0].(map[string]interface{})["unread_count"])
	assert.EqualValues(t, 2, body["total_unread"])

	// Advancing the watermark clears the count
	w = env.request(t, http.MethodPost, "/api/groups/"+group.ID+"/read", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/groups", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["total_unread"])
}

func TestReadWatermarkNeverRegresses(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice@example.com", models.RoleUser)

	group := env.createGroupWithMembers(t, alice)

	future := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, env.db.Model(&models.IdeaGroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, alice.ID).
		UpdateColumn("last_read_at", future).Error)

	w := env.request(t, http.MethodPost, "/api/groups/"+group.ID+"/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var member models.IdeaGroupMember
	require.NoError(t, env.db.Where("group_id = ? AND user_id = ?", group.ID, alice.ID).First(&member).Error)
	assert.False(t, member.LastReadAt.Before(future), "watermark moved backwards")
}

func TestJoinGroup(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", models.RoleUser)
	_, bobToken := env.createUser(t, "bob@example.com", models.RoleUser)

	group := env.createGroupWithMembers(t, alice)

	w := env.request(t, http.MethodPost, "/api/groups/"+group.ID+"/join", bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Idempotent
	w = env.request(t, http.MethodPost, "/api/groups/"+group.ID+"/join", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var n int64
	require.NoError(t, env.db.Model(&models.IdeaGroupMember{}).Where("group_id = ?", group.ID).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}
