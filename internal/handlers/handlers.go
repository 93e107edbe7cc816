package handlers

import (
	"log/slog"

	"ideahub/server/internal/config"
	"ideahub/server/internal/websocket"

	"gorm.io/gorm"
)

type Handlers struct {
	db     *gorm.DB
	hub    *websocket.Hub
	config *config.Config
	logger *slog.Logger
	trends TrendFetcher
}

func New(db *gorm.DB, hub *websocket.Hub, cfg *config.Config, logger *slog.Logger, trends TrendFetcher) *Handlers {
	return &Handlers{
		db:     db,
		hub:    hub,
		config: cfg,
		logger: logger,
		trends: trends,
	}
}
