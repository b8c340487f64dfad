package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	apps := r.Group("/applications")
	apps.Use(middleware.AuthMiddleware())
	{
		// Соискатель
		apps.POST("", middleware.RequireRoles(models.UserRoleApplicant), h.Submit)
		apps.GET("/my", middleware.RequireRoles(models.UserRoleApplicant), h.ListMine)
		apps.PUT("/:applicationId", middleware.RequireRoles(models.UserRoleApplicant, models.UserRoleAdmin), h.UpdateContent)
		apps.POST("/:applicationId/withdraw", middleware.RequireRoles(models.UserRoleApplicant, models.UserRoleAdmin), h.Withdraw)

		// Владелец вакансии
		apps.GET("/received", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.ListReceived)
		apps.PUT("/:applicationId/status", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.UpdateStatus)
		apps.DELETE("/:applicationId", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.Delete)

		// Общие
		apps.GET("/:applicationId", h.Get)
		apps.GET("/:applicationId/resume-url", h.ResumeURL)
	}
}

// Submit принимает multipart/form-data: поля job_id, cover_letter,
// no_resume и опциональный файл resume.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	req := dto.SubmitApplicationRequest{
		JobID:       c.PostForm("job_id"),
		CoverLetter: c.PostForm("cover_letter"),
		NoResume:    c.PostForm("no_resume") == "true",
	}

	if file, err := c.FormFile("resume"); err == nil {
		req.Resume = file
	}

	if !h.validate(c, &req) {
		return
	}

	app, err := h.applicationService.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	app, err := h.applicationService.Get(c.Request.Context(), actor, applicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

func (h *ApplicationHandler) ListReceived(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListReceived(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}

func (h *ApplicationHandler) UpdateContent(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	var req dto.UpdateApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateContent(c.Request.Context(), actor, applicationID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateStatus принимает целевой статус accepted или declined.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	var (
		app *dto.ApplicationResponse
		err error
	)
	switch req.Status {
	case models.ApplicationStatusAccepted:
		app, err = h.applicationService.Accept(c.Request.Context(), actor, applicationID)
	case models.ApplicationStatusDeclined:
		app, err = h.applicationService.Decline(c.Request.Context(), actor, applicationID)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	if err := h.applicationService.Withdraw(c.Request.Context(), actor, applicationID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn"})
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	warning, err := h.applicationService.Delete(c.Request.Context(), actor, applicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp := gin.H{"message": "Application deleted"}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) ResumeURL(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	signed, err := h.applicationService.ResumeURL(c.Request.Context(), actor, applicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, signed)
}
