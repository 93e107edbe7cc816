package handlers

import (
	"net/http"
	"testing"

	"ideahub/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutualLikePromotesToMatch(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice@example.com", models.RoleUser)
	bob, bobToken := env.createUser(t, "bob@example.com", models.RoleUser)

	w := env.request(t, http.MethodPost, "/api/likes", aliceToken, map[string]interface{}{
		"to_user_id": bob.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["matched"])
	assert.Zero(t, env.count(t, &models.UserMatch{}))

	w = env.request(t, http.MethodPost, "/api/likes", bobToken, map[string]interface{}{
		"to_user_id": alice.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["matched"])
	assert.EqualValues(t, 1, env.count(t, &models.UserMatch{}))

	// The stored pair is canonical regardless of like direction
	var match models.UserMatch
	require.NoError(t, env.db.First(&match).Error)
	user1, user2 := models.MatchPair(alice.ID, bob.ID)
	assert.Equal(t, user1, match.User1ID)
	assert.Equal(t, user2, match.User2ID)
}

func TestSelfLikeRejected(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice@example.com", models.RoleUser)

	w := env.request(t, http.MethodPost, "/api/likes", token, map[string]interface{}{
		"to_user_id": alice.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.count(t, &models.UserLike{}))
}

func TestDuplicateLikeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.createUser(t, "alice@example.com", models.RoleUser)
	bob, _ := env.createUser(t, "bob@example.com", models.RoleUser)

	for i := 0; i < 2; i++ {
		w := env.request(t, http.MethodPost, "/api/likes", aliceToken, map[string]interface{}{
			"to_user_id": bob.ID,
		})
		require.Contains(t, []int{http.StatusCreated, http.StatusOK}, w.Code)
	}

	assert.EqualValues(t, 1, env.count(t, &models.UserLike{}))
}

func TestInvitationsExcludeMatchedSenders(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", models.RoleUser)
	bob, _ := env.createUser(t, "bob@example.com", models.RoleUser)
	carol, _ := env.createUser(t, "carol@example.com", models.RoleUser)
	me, meToken := env.createUser(t, "me@example.com", models.RoleUser)

	// Three incoming likes
	for _, from := range []string{alice.ID, bob.ID, carol.ID} {
		require.NoError(t, env.db.Create(&models.UserLike{FromUserID: from, ToUserID: me.ID}).Error)
	}

	// Bob is already matched with me
	user1, user2 := models.MatchPair(bob.ID, me.ID)
	require.NoError(t, env.db.Create(&models.UserMatch{User1ID: user1, User2ID: user2}).Error)

	w := env.request(t, http.MethodGet, "/api/invitations", meToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	invitations := decodeBody(t, w)["invitations"].([]interface{})
	require.Len(t, invitations, 2)
	for _, inv := range invitations {
		from := inv.(map[string]interface{})["from_user"].(map[string]interface{})
		assert.NotEqual(t, bob.ID, from["id"])
	}
}

func TestIgnoredLikeLeavesInvitations(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", models.RoleUser)
	me, meToken := env.createUser(t, "me@example.com", models.RoleUser)

	like := models.UserLike{FromUserID: alice.ID, ToUserID: me.ID}
	require.NoError(t, env.db.Create(&like).Error)

	w := env.request(t, http.MethodPost, "/api/likes/"+like.ID+"/ignore", meToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/invitations", meToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["invitations"])
}

func TestOnlyRecipientCanIgnoreLike(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice@example.com", models.RoleUser)
	me, _ := env.createUser(t, "me@example.com", models.RoleUser)

	like := models.UserLike{FromUserID: alice.ID, ToUserID: me.ID}
	require.NoError(t, env.db.Create(&like).Error)

	// The sender is not the recipient, so the predicate finds nothing
	w := env.request(t, http.MethodPost, "/api/likes/"+like.ID+"/ignore", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var reloaded models.UserLike
	require.NoError(t, env.db.First(&reloaded, "id = ?", like.ID).Error)
	assert.False(t, reloaded.Ignored)
}

func TestUnmatchedLikeReappearsAsInvitation(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", models.RoleUser)
	me, meToken := env.createUser(t, "me@example.com", models.RoleUser)

	require.NoError(t, env.db.Create(&models.UserLike{FromUserID: alice.ID, ToUserID: me.ID}).Error)
	user1, user2 := models.MatchPair(alice.ID, me.ID)
	match := models.UserMatch{User1ID: user1, User2ID: user2}
	require.NoError(t, env.db.Create(&match).Error)

	w := env.request(t, http.MethodGet, "/api/invitations", meToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeBody(t, w)["invitations"])

	// Unmatching brings the pending like back
	require.NoError(t, env.db.Delete(&match).Error)

	w = env.request(t, http.MethodGet, "/api/invitations", meToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["invitations"], 1)
}

func TestGetMatchesListsCounterparts(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice@example.com", models.RoleUser)
	me, meToken := env.createUser(t, "me@example.com", models.RoleUser)

	user1, user2 := models.MatchPair(alice.ID, me.ID)
	require.NoError(t, env.db.Create(&models.UserMatch{User1ID: user1, User2ID: user2}).Error)

	w := env.request(t, http.MethodGet, "/api/matches", meToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	matches := decodeBody(t, w)["matches"].([]interface{})
	require.Len(t, matches, 1)
	counterpart := matches[0].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, alice.ID, counterpart["id"])
}
