package dto

import (
	"mime/multipart"
	"time"

	"jobboard_backend/internal/models"
)

type SubmitApplicationRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid4"`
	CoverLetter string `json:"cover_letter" validate:"max=5000"`

	// Резюме опционально: либо файл, либо явное подтверждение подачи без него.
	Resume   *multipart.FileHeader `json:"-"`
	NoResume bool                  `json:"no_resume"`
}

type UpdateApplicationRequest struct {
	CoverLetter *string `json:"cover_letter,omitempty" validate:"omitempty,max=5000"`
}

type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,oneof=accepted declined"`
}

type ApplicationResponse struct {
	ID          string                   `json:"id"`
	JobID       string                   `json:"job_id"`
	JobTitle    string                   `json:"job_title,omitempty"`
	ApplicantID string                   `json:"applicant_id"`
	Applicant   *UserResponse            `json:"applicant,omitempty"`
	CoverLetter string                   `json:"cover_letter,omitempty"`
	Status      models.ApplicationStatus `json:"status"`
	HasResume   bool                     `json:"has_resume"`
	SubmittedAt time.Time                `json:"submitted_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// SignedResumeURL - короткоживущая ссылка на артефакт резюме.
// Никогда не сохраняется; каждый просмотр запрашивает свежую.
type SignedResumeURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
