package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/storage"
	"jobboard_backend/pkg/apperrors"
)

// allowedResumeExtensions - расширения, соответствующие разрешенным MIME-типам
var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type ResumeService interface {
	// Upload валидирует и сохраняет файл резюме в приватное хранилище.
	// Возвращает ключ артефакта. Невалидный файл отклоняется явной
	// ошибкой, никогда не обрезается и не перекодируется молча.
	Upload(ctx context.Context, applicantID, jobID string, file *multipart.FileHeader) (*ResumeArtifact, error)

	// SignURL выдает короткоживущую ссылку на резюме отклика.
	// Требует прохождения правила чтения отклика в Authorization Gate.
	SignURL(ctx context.Context, actor auth.Actor, app *models.Application) (*dto.SignedResumeURL, error)

	// DeleteArtifact удаляет физический файл best-effort: сбой логируется
	// и возвращается, но вызывающий не откатывает удаление метаданных.
	DeleteArtifact(ctx context.Context, key string) error
}

// ResumeArtifact - метаданные загруженного резюме
type ResumeArtifact struct {
	Key         string
	ContentType string
	Size        int64
}

type resumeService struct {
	storage storage.Storage
	cfg     *config.Config
}

func NewResumeService(store storage.Storage, cfg *config.Config) ResumeService {
	return &resumeService{storage: store, cfg: cfg}
}

func (s *resumeService) Upload(ctx context.Context, applicantID, jobID string, file *multipart.FileHeader) (*ResumeArtifact, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("resume file is missing")
	}

	if file.Size > s.cfg.Resume.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !s.allowedType(contentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedResumeExtensions[ext] {
		// Тип проверяем и по расширению: .exe с подделанным
		// Content-Type отклоняется независимо от размера
		return nil, apperrors.ErrInvalidFileType
	}

	// Ключ уникален per-upload (актор, вакансия, момент времени) -
	// коллизий нет без координирующего лока
	key := fmt.Sprintf("resumes/%s-%s-%d%s", applicantID, jobID, time.Now().UnixNano(), ext)

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	if err := s.storage.Save(ctx, key, src, contentType); err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}

	return &ResumeArtifact{
		Key:         key,
		ContentType: contentType,
		Size:        file.Size,
	}, nil
}

func (s *resumeService) SignURL(ctx context.Context, actor auth.Actor, app *models.Application) (*dto.SignedResumeURL, error) {
	jobOwnerID := ""
	if app.Job != nil {
		jobOwnerID = app.Job.OwnerID
	}

	if err := auth.Decide(actor, auth.ActionRead, auth.ApplicationResource{
		ApplicantID: app.ApplicantID,
		JobOwnerID:  jobOwnerID,
	}); err != nil {
		return nil, err
	}

	if !app.HasResume() {
		return nil, apperrors.ErrNotFound(nil).WithDetails("application has no resume attached")
	}

	ttl := time.Duration(s.cfg.Resume.SignedURLTTL) * time.Second
	url, err := s.storage.GetSignedURL(ctx, app.ResumeKey, ttl)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}

	return &dto.SignedResumeURL{
		URL:       url,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (s *resumeService) DeleteArtifact(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "failed to delete resume artifact", "key", key, "error", err.Error())
		return err
	}
	return nil
}

func (s *resumeService) allowedType(contentType string) bool {
	for _, t := range s.cfg.Resume.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
