package handlers

import (
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	UserHandler         *UserHandler
	NotificationHandler *NotificationHandler
	FileHandler         *FileHandler
}

// NewAppHandlers собирает хэндлеры поверх сервисов.
func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, sc.AuthService),
		ProfileHandler:      NewProfileHandler(base, sc.ProfileService),
		JobHandler:          NewJobHandler(base, sc.JobService, sc.ApplicationService),
		ApplicationHandler:  NewApplicationHandler(base, sc.ApplicationService),
		UserHandler:         NewUserHandler(base, sc.AdminService, sc.ProfileService),
		NotificationHandler: NewNotificationHandler(base, sc.Notices),
		FileHandler:         NewFileHandler(base, sc.Storage),
	}
}
