package repositories

import (
	"errors"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	// ErrApplicationExists - хранилище арбитрирует гонку двух Submit:
	// второй писатель получает конфликт частичного уникального индекса
	// и должен перечитать состояние, первый записанный отклик главный.
	ErrApplicationExists = errors.New("application already exists for this job and applicant")
	// ErrStaleStatus - условный update не нашел строку в ожидаемом
	// статусе: кто-то успел перевести отклик раньше.
	ErrStaleStatus = errors.New("application status changed concurrently")
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id string) (*models.Application, error)
	FindLiveByJobAndApplicant(jobID, applicantID string) (*models.Application, error)

	// UpdateContent обновляет содержимое отклика без изменения статуса.
	UpdateContent(app *models.Application) error

	// TransitionStatus - условный переход: строка обновляется только если
	// ее текущий статус равен from. Ноль затронутых строк = проигранная гонка.
	TransitionStatus(id string, from, to models.ApplicationStatus) error

	Delete(id string) error
	DeleteByApplicant(applicantID string) error

	ListByJob(jobID string) ([]models.Application, error)
	ListByApplicant(applicantID string) ([]models.Application, error)
	ListByJobOwner(ownerID string) ([]models.Application, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(app *models.Application) error {
	err := r.db.Create(app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrApplicationExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var app models.Application
	err := r.db.Preload("Job").Preload("Applicant").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindLiveByJobAndApplicant(jobID, applicantID string) (*models.Application, error) {
	var app models.Application
	err := r.db.
		Where("job_id = ? AND applicant_id = ? AND status <> ?", jobID, applicantID, models.ApplicationStatusWithdrawn).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) UpdateContent(app *models.Application) error {
	return r.db.Model(&models.Application{}).
		Where("id = ?", app.ID).
		Updates(map[string]interface{}{
			"cover_letter":        app.CoverLetter,
			"resume_key":          app.ResumeKey,
			"resume_content_type": app.ResumeContentType,
			"resume_size":         app.ResumeSize,
		}).Error
}

func (r *ApplicationRepositoryImpl) TransitionStatus(id string, from, to models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Application{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) DeleteByApplicant(applicantID string) error {
	return r.db.Delete(&models.Application{}, "applicant_id = ?", applicantID).Error
}

func (r *ApplicationRepositoryImpl) ListByJob(jobID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("submitted_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListByApplicant(applicantID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Job").
		Where("applicant_id = ?", applicantID).
		Order("submitted_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListByJobOwner(ownerID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Job").Preload("Applicant").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.owner_id = ?", ownerID).
		Order("applications.submitted_at DESC").
		Find(&apps).Error
	return apps, err
}
