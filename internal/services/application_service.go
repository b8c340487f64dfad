package services

import (
	"context"
	"errors"
	"fmt"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/notify"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
)

type ApplicationService interface {
	Submit(ctx context.Context, actor auth.Actor, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	Get(ctx context.Context, actor auth.Actor, applicationID string) (*dto.ApplicationResponse, error)
	UpdateContent(ctx context.Context, actor auth.Actor, applicationID string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error)
	Accept(ctx context.Context, actor auth.Actor, applicationID string) (*dto.ApplicationResponse, error)
	Decline(ctx context.Context, actor auth.Actor, applicationID string) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, actor auth.Actor, applicationID string) error

	// Delete удаляет отклик и best-effort его артефакт резюме.
	// Возвращаемый warning не пуст при частичном сбое очистки хранилища.
	Delete(ctx context.Context, actor auth.Actor, applicationID string) (warning string, err error)

	ResumeURL(ctx context.Context, actor auth.Actor, applicationID string) (*dto.SignedResumeURL, error)

	ListMine(ctx context.Context, actor auth.Actor) ([]dto.ApplicationResponse, error)
	ListForJob(ctx context.Context, actor auth.Actor, jobID string) ([]dto.ApplicationResponse, error)
	ListReceived(ctx context.Context, actor auth.Actor) ([]dto.ApplicationResponse, error)
}

type applicationService struct {
	appRepo repositories.ApplicationRepository
	jobRepo repositories.JobRepository
	resumes ResumeService
	notices *notify.Queue
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	resumes ResumeService,
	notices *notify.Queue,
) ApplicationService {
	return &applicationService{
		appRepo: appRepo,
		jobRepo: jobRepo,
		resumes: resumes,
		notices: notices,
	}
}

// Submit создает отклик в статусе pending.
func (s *applicationService) Submit(ctx context.Context, actor auth.Actor, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	if err := auth.Decide(actor, auth.ActionCreate, auth.ApplicationResource{ApplicantID: actor.ID}); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByID(req.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// Предварительная проверка уникальности; финальный арбитр -
	// уникальный индекс хранилища (конкурентный Submit ловится ниже)
	if existing, err := s.appRepo.FindLiveByJobAndApplicant(job.ID, actor.ID); err == nil && existing != nil {
		return nil, apperrors.ErrAlreadyApplied
	}

	// Резюме опционально, но молчаливая подача без него запрещена:
	// либо валидный файл, либо явное подтверждение no_resume
	var artifact *ResumeArtifact
	if req.Resume != nil {
		artifact, err = s.resumes.Upload(ctx, actor.ID, job.ID, req.Resume)
		if err != nil {
			return nil, err
		}
	} else if !req.NoResume {
		return nil, apperrors.NewBadRequestError("attach a resume or confirm submission without one")
	}

	app := &models.Application{
		JobID:       job.ID,
		ApplicantID: actor.ID,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusPending,
	}
	if artifact != nil {
		app.ResumeKey = artifact.Key
		app.ResumeContentType = artifact.ContentType
		app.ResumeSize = artifact.Size
	}

	if err := s.appRepo.Create(app); err != nil {
		if errors.Is(err, repositories.ErrApplicationExists) {
			// Проигравший гонку должен перечитать и считать первый
			// записанный отклик авторитетным
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	s.notices.Push(job.OwnerID, notify.LevelInfo,
		fmt.Sprintf("New application received for %q", job.Title))

	app.Job = job
	resp := buildApplicationResponse(app)
	return &resp, nil
}

func (s *applicationService) Get(ctx context.Context, actor auth.Actor, applicationID string) (*dto.ApplicationResponse, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	if err := auth.Decide(actor, auth.ActionRead, applicationDescriptor(app)); err != nil {
		return nil, err
	}

	resp := buildApplicationResponse(app)
	return &resp, nil
}

// UpdateContent редактирует содержимое отклика соискателем.
// Разрешено только в pending; статус при этом не меняется.
func (s *applicationService) UpdateContent(ctx context.Context, actor auth.Actor, applicationID string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	if err := auth.Decide(actor, auth.ActionUpdate, applicationDescriptor(app)); err != nil {
		return nil, err
	}

	if app.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotEditable
	}

	if req.CoverLetter != nil {
		app.CoverLetter = *req.CoverLetter
	}

	if err := s.appRepo.UpdateContent(app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := buildApplicationResponse(app)
	return &resp, nil
}

// Accept переводит pending -> accepted. Повторный Accept уже принятого
// отклика - no-op, не ошибка.
func (s *applicationService) Accept(ctx context.Context, actor auth.Actor, applicationID string) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, actor, applicationID, models.ApplicationStatusAccepted)
}

// Decline переводит pending -> declined. Вызывающему затем предлагается
// необязательное окончательное удаление записи (Delete).
func (s *applicationService) Decline(ctx context.Context, actor auth.Actor, applicationID string) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, actor, applicationID, models.ApplicationStatusDeclined)
}

func (s *applicationService) transition(ctx context.Context, actor auth.Actor, applicationID string, target models.ApplicationStatus) (*dto.ApplicationResponse, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	if err := auth.Decide(actor, auth.ActionTransition, applicationDescriptor(app)); err != nil {
		return nil, err
	}

	// Идемпотентность: переход в текущий статус - no-op
	if app.Status == target {
		resp := buildApplicationResponse(app)
		return &resp, nil
	}

	if !app.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.appRepo.TransitionStatus(app.ID, app.Status, target); err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			// Гонку выиграл другой актор; перечитываем и решаем заново
			fresh, ferr := s.loadApplication(applicationID)
			if ferr != nil {
				return nil, ferr
			}
			if fresh.Status == target {
				resp := buildApplicationResponse(fresh)
				return &resp, nil
			}
			return nil, apperrors.ErrConflict(err, "application", "Application status changed, please re-fetch")
		}
		return nil, apperrors.InternalError(err)
	}

	app.Status = target
	s.notices.Push(app.ApplicantID, notify.LevelInfo,
		fmt.Sprintf("Your application is now %s", target))

	resp := buildApplicationResponse(app)
	return &resp, nil
}

// Withdraw снимает собственный pending отклик и освобождает
// слот уникальности пары (job, applicant).
func (s *applicationService) Withdraw(ctx context.Context, actor auth.Actor, applicationID string) error {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return err
	}

	if err := auth.Decide(actor, auth.ActionUpdate, applicationDescriptor(app)); err != nil {
		return err
	}

	if app.Status != models.ApplicationStatusPending {
		return apperrors.ErrApplicationNotEditable
	}

	if err := s.appRepo.TransitionStatus(app.ID, models.ApplicationStatusPending, models.ApplicationStatusWithdrawn); err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return apperrors.ErrConflict(err, "application", "Application status changed, please re-fetch")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *applicationService) Delete(ctx context.Context, actor auth.Actor, applicationID string) (string, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return "", err
	}

	if err := auth.Decide(actor, auth.ActionDelete, applicationDescriptor(app)); err != nil {
		return "", err
	}

	if err := s.appRepo.Delete(app.ID); err != nil {
		return "", apperrors.InternalError(err)
	}

	// Очистка хранилища не транзакционна с удалением метаданных:
	// сбой выдается предупреждением, запись не восстанавливается
	var warning string
	if app.HasResume() {
		if err := s.resumes.DeleteArtifact(ctx, app.ResumeKey); err != nil {
			logger.CtxWarn(ctx, "resume artifact cleanup failed after application delete",
				"application_id", app.ID, "key", app.ResumeKey)
			warning = "application deleted, but resume file cleanup failed"
		}
	}

	return warning, nil
}

func (s *applicationService) ResumeURL(ctx context.Context, actor auth.Actor, applicationID string) (*dto.SignedResumeURL, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	return s.resumes.SignURL(ctx, actor, app)
}

func (s *applicationService) ListMine(ctx context.Context, actor auth.Actor) ([]dto.ApplicationResponse, error) {
	apps, err := s.appRepo.ListByApplicant(actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationResponses(apps), nil
}

func (s *applicationService) ListForJob(ctx context.Context, actor auth.Actor, jobID string) ([]dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// Чтение чужих откликов - через правило чтения отклика:
	// владелец вакансии или админ
	if err := auth.Decide(actor, auth.ActionRead, auth.ApplicationResource{JobOwnerID: job.OwnerID}); err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListByJob(jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationResponses(apps), nil
}

func (s *applicationService) ListReceived(ctx context.Context, actor auth.Actor) ([]dto.ApplicationResponse, error) {
	if actor.Role != models.UserRoleBusiness && !actor.IsAdmin() {
		return nil, apperrors.ErrAccessDenied
	}

	apps, err := s.appRepo.ListByJobOwner(actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildApplicationResponses(apps), nil
}

// Helpers

func (s *applicationService) loadApplication(id string) (*models.Application, error) {
	app, err := s.appRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return app, nil
}

func applicationDescriptor(app *models.Application) auth.ApplicationResource {
	res := auth.ApplicationResource{ApplicantID: app.ApplicantID}
	if app.Job != nil {
		res.JobOwnerID = app.Job.OwnerID
	}
	return res
}

func buildApplicationResponse(app *models.Application) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:          app.ID,
		JobID:       app.JobID,
		ApplicantID: app.ApplicantID,
		CoverLetter: app.CoverLetter,
		Status:      app.Status,
		HasResume:   app.HasResume(),
		SubmittedAt: app.SubmittedAt,
		UpdatedAt:   app.UpdatedAt,
	}
	if app.Job != nil {
		resp.JobTitle = app.Job.Title
	}
	if app.Applicant != nil {
		resp.Applicant = &dto.UserResponse{
			ID:       app.Applicant.ID,
			Email:    app.Applicant.Email,
			FullName: app.Applicant.FullName,
			Role:     app.Applicant.Role,
		}
	}
	return resp
}

func buildApplicationResponses(apps []models.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, buildApplicationResponse(&apps[i]))
	}
	return out
}
