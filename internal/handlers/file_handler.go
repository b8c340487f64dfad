package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/storage"
)

// FileHandler отдает файлы по подписанным ссылкам локального бэкенда.
// Для S3 ссылки ведут напрямую в бакет и сюда не попадают.
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, store storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     store,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Без AuthMiddleware: авторизацию несет сама подпись ссылки
	r.GET("/files/*key", h.ServeSignedFile)
}

func (h *FileHandler) ServeSignedFile(c *gin.Context) {
	local, ok := h.storage.(*storage.LocalStorage)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired link"})
		return
	}

	if !local.VerifySignedRequest(key, expires, c.Query("sig")) {
		logger.CtxWarn(c.Request.Context(), "rejected file request with bad signature", "key", key)
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired link"})
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to stream file", err, "key", key)
	}
}
