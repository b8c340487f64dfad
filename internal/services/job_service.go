package services

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
)

type JobService interface {
	Create(ctx context.Context, actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	Get(ctx context.Context, actor auth.Actor, jobID string) (*dto.JobResponse, error)
	Update(ctx context.Context, actor auth.Actor, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	Delete(ctx context.Context, actor auth.Actor, jobID string) error
	List(ctx context.Context, actor auth.Actor, limit, offset int) ([]dto.JobResponse, error)
	ListOwn(ctx context.Context, actor auth.Actor) ([]dto.JobResponse, error)
}

type jobService struct {
	jobRepo repositories.JobRepository
}

func NewJobService(jobRepo repositories.JobRepository) JobService {
	return &jobService{jobRepo: jobRepo}
}

// Create публикует новую вакансию. Доступно только business и admin.
func (s *jobService) Create(ctx context.Context, actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if err := auth.Decide(actor, auth.ActionCreate, auth.JobResource{OwnerID: actor.ID}); err != nil {
		return nil, err
	}

	job := &models.Job{
		OwnerID:     actor.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	}
	if err := setTags(job, req.Tags); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := buildJobResponse(job)
	return &resp, nil
}

func (s *jobService) Get(ctx context.Context, actor auth.Actor, jobID string) (*dto.JobResponse, error) {
	job, err := s.loadJob(jobID)
	if err != nil {
		return nil, err
	}

	// Вакансии публичны на чтение для любого аутентифицированного актора
	if err := auth.Decide(actor, auth.ActionRead, auth.JobResource{OwnerID: job.OwnerID}); err != nil {
		return nil, err
	}

	resp := buildJobResponse(job)
	return &resp, nil
}

func (s *jobService) Update(ctx context.Context, actor auth.Actor, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.loadJob(jobID)
	if err != nil {
		return nil, err
	}

	if err := auth.Decide(actor, auth.ActionUpdate, auth.JobResource{OwnerID: job.OwnerID}); err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Tags != nil {
		if err := setTags(job, req.Tags); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := buildJobResponse(job)
	return &resp, nil
}

// Delete удаляет вакансию; отклики уходят каскадом на уровне БД.
func (s *jobService) Delete(ctx context.Context, actor auth.Actor, jobID string) error {
	job, err := s.loadJob(jobID)
	if err != nil {
		return err
	}

	if err := auth.Decide(actor, auth.ActionDelete, auth.JobResource{OwnerID: job.OwnerID}); err != nil {
		return err
	}

	if err := s.jobRepo.Delete(job.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *jobService) List(ctx context.Context, actor auth.Actor, limit, offset int) ([]dto.JobResponse, error) {
	if err := auth.Decide(actor, auth.ActionRead, auth.JobResource{}); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	jobs, err := s.jobRepo.List(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildJobResponses(jobs), nil
}

func (s *jobService) ListOwn(ctx context.Context, actor auth.Actor) ([]dto.JobResponse, error) {
	if actor.Role != models.UserRoleBusiness && !actor.IsAdmin() {
		return nil, apperrors.ErrAccessDenied
	}

	jobs, err := s.jobRepo.ListByOwner(actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildJobResponses(jobs), nil
}

func (s *jobService) loadJob(id string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func setTags(job *models.Job, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	job.Tags = datatypes.JSON(raw)
	return nil
}

func buildJobResponse(job *models.Job) dto.JobResponse {
	resp := dto.JobResponse{
		ID:          job.ID,
		OwnerID:     job.OwnerID,
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
	if len(job.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(job.Tags, &tags); err == nil {
			resp.Tags = tags
		}
	}
	return resp
}

func buildJobResponses(jobs []models.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, buildJobResponse(&jobs[i]))
	}
	return out
}
