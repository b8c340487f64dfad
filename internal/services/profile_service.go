package services

import (
	"context"
	"errors"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
)

// CredentialRevoker отзывает учетные данные пользователя во внешнем
// identity-провайдере. Вызывается после удаления строки профиля;
// сбой дает частичное состояние, а не откат.
type CredentialRevoker interface {
	Revoke(ctx context.Context, userID string) error
}

// NoopRevoker используется, когда учетные данные живут только в нашей
// таблице users и отдельного отзыва не требуется.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(ctx context.Context, userID string) error { return nil }

type ProfileService interface {
	Get(ctx context.Context, actor auth.Actor, userID string) (*dto.ProfileResponse, error)
	Update(ctx context.Context, actor auth.Actor, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	DeleteAccount(ctx context.Context, actor auth.Actor, userID string) (*dto.DeleteAccountResult, error)
}

type profileService struct {
	userRepo repositories.UserRepository
	appRepo  repositories.ApplicationRepository
	resumes  ResumeService
	revoker  CredentialRevoker
}

func NewProfileService(
	userRepo repositories.UserRepository,
	appRepo repositories.ApplicationRepository,
	resumes ResumeService,
	revoker CredentialRevoker,
) ProfileService {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &profileService{
		userRepo: userRepo,
		appRepo:  appRepo,
		resumes:  resumes,
		revoker:  revoker,
	}
}

func (s *profileService) Get(ctx context.Context, actor auth.Actor, userID string) (*dto.ProfileResponse, error) {
	if err := auth.Decide(actor, auth.ActionRead, auth.AccountResource{ID: userID}); err != nil {
		return nil, err
	}

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	resp := buildProfileResponse(user)
	return &resp, nil
}

func (s *profileService) Update(ctx context.Context, actor auth.Actor, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := auth.Decide(actor, auth.ActionUpdate, auth.AccountResource{ID: userID}); err != nil {
		return nil, err
	}

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil && *req.Email != user.Email {
		user.Email = *req.Email
		user.IsVerified = false
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	resp := buildProfileResponse(user)
	return &resp, nil
}

// DeleteAccount удаляет аккаунт: отклики с артефактами, строку профиля,
// затем учетные данные. Админ не может удалить самого себя, это
// блокируется на уровне гейта.
//
// Шаги не транзакционны между собой: если отзыв учетных данных после
// удаления профиля не удался, операция считается выполненной
// с предупреждением, а не откатывается.
func (s *profileService) DeleteAccount(ctx context.Context, actor auth.Actor, userID string) (*dto.DeleteAccountResult, error) {
	if err := auth.Decide(actor, auth.ActionDelete, auth.AccountResource{ID: userID}); err != nil {
		return nil, err
	}

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	result := &dto.DeleteAccountResult{}

	// Сначала чистим артефакты откликов соискателя; сами строки
	// откликов уйдут каскадом вместе с пользователем
	if user.Role == models.UserRoleApplicant {
		apps, err := s.appRepo.ListByApplicant(user.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		for i := range apps {
			if !apps[i].HasResume() {
				continue
			}
			if err := s.resumes.DeleteArtifact(ctx, apps[i].ResumeKey); err != nil {
				logger.CtxWarn(ctx, "resume artifact cleanup failed during account delete",
					"user_id", user.ID, "key", apps[i].ResumeKey)
				result.Warning = "account deleted, but some resume files could not be removed"
			}
		}
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	result.Deleted = true

	if err := s.revoker.Revoke(ctx, user.ID); err != nil {
		logger.CtxError(ctx, "credential revocation failed after profile delete",
			"user_id", user.ID, "error", err)
		result.Warning = "profile deleted, but credential revocation failed"
	}

	return result, nil
}

func (s *profileService) loadUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func buildProfileResponse(user *models.User) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role,
		Status:     user.Status,
		IsVerified: user.IsVerified,
	}
}
