package services

import (
	"context"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
)

type AdminService interface {
	ListUsers(ctx context.Context, actor auth.Actor, limit, offset int) ([]dto.ProfileResponse, error)
	Stats(ctx context.Context, actor auth.Actor) (*dto.AdminStats, error)
}

type adminService struct {
	userRepo repositories.UserRepository
	jobRepo  repositories.JobRepository
}

func NewAdminService(userRepo repositories.UserRepository, jobRepo repositories.JobRepository) AdminService {
	return &adminService{userRepo: userRepo, jobRepo: jobRepo}
}

func (s *adminService) ListUsers(ctx context.Context, actor auth.Actor, limit, offset int) ([]dto.ProfileResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAccessDenied
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.ProfileResponse, 0, len(users))
	for i := range users {
		out = append(out, buildProfileResponse(&users[i]))
	}
	return out, nil
}

func (s *adminService) Stats(ctx context.Context, actor auth.Actor) (*dto.AdminStats, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAccessDenied
	}

	total, err := s.userRepo.CountAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	applicants, err := s.userRepo.CountByRole(models.UserRoleApplicant)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	businesses, err := s.userRepo.CountByRole(models.UserRoleBusiness)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	jobs, err := s.jobRepo.CountAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AdminStats{
		TotalUsers: total,
		Applicants: applicants,
		Businesses: businesses,
		TotalJobs:  jobs,
	}, nil
}
