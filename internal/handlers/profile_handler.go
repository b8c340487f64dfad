package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("", h.GetOwnProfile)
		profile.PUT("", h.UpdateOwnProfile)
		profile.DELETE("", h.DeleteOwnAccount)
	}
}

func (h *ProfileHandler) GetOwnProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), actor, actor.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateOwnProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), actor, actor.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteOwnAccount(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	result, err := h.profileService.DeleteAccount(c.Request.Context(), actor, actor.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
