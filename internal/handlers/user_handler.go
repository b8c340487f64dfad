package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
)

// UserHandler - административные операции над пользователями.
type UserHandler struct {
	*BaseHandler
	adminService   services.AdminService
	profileService services.ProfileService
}

func NewUserHandler(base *BaseHandler, adminService services.AdminService, profileService services.ProfileService) *UserHandler {
	return &UserHandler{
		BaseHandler:    base,
		adminService:   adminService,
		profileService: profileService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:userId", h.GetUser)
		admin.DELETE("/users/:userId", h.DeleteUser)
		admin.GET("/stats", h.Stats)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	users, err := h.adminService.ListUsers(c.Request.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	userID := c.Param("userId")

	profile, err := h.profileService.Get(c.Request.Context(), actor, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteUser удаляет аккаунт любого пользователя, кроме себя самого:
// попытка самоудаления админа отклоняется гейтом.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	userID := c.Param("userId")

	result, err := h.profileService.DeleteAccount(c.Request.Context(), actor, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Stats(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	stats, err := h.adminService.Stats(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
