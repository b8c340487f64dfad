package repositories

import (
	"errors"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id string) (*models.Job, error)
	Update(job *models.Job) error
	Delete(id string) error

	// Listing - снимки на момент запроса, от новых к старым
	List(limit, offset int) ([]models.Job, error)
	ListByOwner(ownerID string) ([]models.Job, error)
	CountAll() (int64, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.Preload("Owner").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(job *models.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Job{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) List(limit, offset int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) ListByOwner(ownerID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Job{}).Count(&count).Error
	return count, err
}
