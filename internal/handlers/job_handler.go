package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
)

type JobHandler struct {
	*BaseHandler
	jobService         services.JobService
	applicationService services.ApplicationService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, applicationService services.ApplicationService) *JobHandler {
	return &JobHandler{
		BaseHandler:        base,
		jobService:         jobService,
		applicationService: applicationService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:jobId", h.GetJob)
		jobs.GET("/my", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.ListOwnJobs)
		jobs.POST("", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.CreateJob)
		jobs.PUT("/:jobId", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.UpdateJob)
		jobs.DELETE("/:jobId", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.DeleteJob)

		// Отклики по конкретной вакансии видит ее владелец
		jobs.GET("/:jobId/applications", middleware.RequireRoles(models.UserRoleBusiness, models.UserRoleAdmin), h.ListJobApplications)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	jobs, err := h.jobService.List(c.Request.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	job, err := h.jobService.Get(c.Request.Context(), actor, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListOwnJobs(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListOwn(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	var req dto.UpdateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), actor, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	if err := h.jobService.Delete(c.Request.Context(), actor, jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

func (h *JobHandler) ListJobApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	apps, err := h.applicationService.ListForJob(c.Request.Context(), actor, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        len(apps),
	})
}
