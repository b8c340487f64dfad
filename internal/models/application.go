package models

import "time"

type Application struct {
	BaseModel
	JobID       string            `gorm:"type:uuid;not null;index"`
	ApplicantID string            `gorm:"type:uuid;not null;index"`
	CoverLetter string            `gorm:"type:text"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	SubmittedAt time.Time         `gorm:"default:now()"`

	// Резюме: ключ в приватном бакете, физический файл никогда
	// не отдается напрямую, только через короткоживущую signed URL.
	ResumeKey         string
	ResumeContentType string
	ResumeSize        int64

	Job       *Job  `gorm:"foreignKey:JobID"`
	Applicant *User `gorm:"foreignKey:ApplicantID"`
}

// HasResume возвращает true, если к отклику прикреплен артефакт резюме.
func (a *Application) HasResume() bool {
	return a.ResumeKey != ""
}
