package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/notify"
)

type NotificationHandler struct {
	*BaseHandler
	notices *notify.Queue
}

func NewNotificationHandler(base *BaseHandler, notices *notify.Queue) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: base,
		notices:     notices,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.Drain)
	}
}

// Drain отдает накопленные сообщения пользователя и очищает очередь.
// Повторный запрос вернет пустой список.
func (h *NotificationHandler) Drain(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	msgs := h.notices.Drain(actor.ID)
	if msgs == nil {
		msgs = []notify.Message{}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": msgs,
		"total":         len(msgs),
	})
}
