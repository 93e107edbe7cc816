package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uploadMIMETypes is the fixed extension allow-list for served uploads.
var uploadMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

const maxUploadSize = 5 << 20 // 5 MB

// UploadFile stores a multipart image under a generated name.
func (h *Handlers) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := uploadMIMETypes[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	if err := os.MkdirAll(h.config.UploadDir, 0755); err != nil {
		h.logger.Error("create upload dir", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.config.UploadDir, name)); err != nil {
		h.logger.Error("save upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": "/api/uploads/" + name})
}

// ServeUpload serves a stored upload. Traversal attempts are rejected before
// any filesystem access; uploads are immutable so they get a long-lived
// cache header.
func (h *Handlers) ServeUpload(c *gin.Context) {
	// gin wildcard params carry a leading slash
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") ||
		strings.ContainsAny(name, "\\") || strings.Contains(name, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file path"})
		return
	}

	ext := strings.ToLower(filepath.Ext(name))
	mimeType, ok := uploadMIMETypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	fullPath := filepath.Join(h.config.UploadDir, name)
	if _, err := os.Stat(fullPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Header("Content-Type", mimeType)
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.File(fullPath)
}
