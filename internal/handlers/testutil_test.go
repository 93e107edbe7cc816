package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"ideahub/server/internal/config"
	"ideahub/server/internal/database"
	"ideahub/server/internal/models"
	ws "ideahub/server/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	handlers *Handlers
	router   *gin.Engine
	trends   *fakeTrendFetcher
}

type fakeTrendFetcher struct {
	calls   int
	payload json.RawMessage
	err     error
}

func (f *fakeTrendFetcher) Fetch(ctx context.Context, keywords []string, source string) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.payload != nil {
		return f.payload, nil
	}
	return json.RawMessage(`{"trend":"up"}`), nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:")
	require.NoError(t, err)

	// Each sqlite connection gets its own private in-memory database, so the
	// pool must stay on a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := ws.NewHub(logger)
	go hub.Run()

	cfg := &config.Config{
		JWTSecret: "test-secret",
		UploadDir: t.TempDir(),
		VAPIDKeys: &config.VAPIDKeys{
			PublicKey:  "test-public",
			PrivateKey: "test-private",
			Subject:    "mailto:test@example.com",
		},
	}

	trends := &fakeTrendFetcher{}
	h := New(db, hub, cfg, logger, trends)

	router := gin.New()
	h.RegisterRoutes(router)

	return &testEnv{db: db, handlers: h, router: router, trends: trends}
}

// createUser inserts a user directly and returns the user and a session token.
func (e *testEnv) createUser(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	user := models.User{
		Email:        email,
		PasswordHash: &hashStr,
		Role:         role,
	}
	require.NoError(t, e.db.Create(&user).Error)

	return &user, e.handlers.generateToken(user.ID)
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
