package handler

import (
	"lanchat/internal/app/chat"
	"lanchat/internal/app/db"
	"lanchat/internal/app/storage"
	"lanchat/internal/configs"
)

// AppDeps bundles everything the HTTP handlers need.
type AppDeps struct {
	Hub     *chat.Hub
	Config  *configs.AppConfig
	Storage storage.StorageService

	// Uploads is db.NopUploadIndex when no database is configured.
	Uploads db.UploadIndex
}
