package services

import (
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/notify"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	ProfileService     ProfileService
	JobService         JobService
	ApplicationService ApplicationService
	ResumeService      ResumeService
	AdminService       AdminService
	EmailService       email.Provider
	Notices            *notify.Queue
	Storage            storage.Storage
}

// NewServiceContainer собирает все сервисы из репозиториев и инфраструктуры.
func NewServiceContainer(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	store storage.Storage,
	provider email.Provider,
	revoker CredentialRevoker,
) *ServiceContainer {
	notices := notify.NewQueue(0, 0)
	resumes := NewResumeService(store, cfg)

	return &ServiceContainer{
		AuthService:        NewAuthService(userRepo, provider),
		ProfileService:     NewProfileService(userRepo, appRepo, resumes, revoker),
		JobService:         NewJobService(jobRepo),
		ApplicationService: NewApplicationService(appRepo, jobRepo, resumes, notices),
		ResumeService:      resumes,
		AdminService:       NewAdminService(userRepo, jobRepo),
		EmailService:       provider,
		Notices:            notices,
		Storage:            store,
	}
}
