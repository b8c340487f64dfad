package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/notify"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
)

// -------- test fakes --------

type fakeJobRepo struct {
	jobs map[string]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*models.Job)}
}

func (f *fakeJobRepo) addJob(id, ownerID, title string) *models.Job {
	job := &models.Job{OwnerID: ownerID, Title: title, Description: "desc"}
	job.ID = id
	f.jobs[id] = job
	return job
}

func (f *fakeJobRepo) Create(job *models.Job) error {
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", len(f.jobs)+1)
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(id string) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobRepo) Update(job *models.Job) error {
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) Delete(id string) error {
	if _, ok := f.jobs[id]; !ok {
		return repositories.ErrJobNotFound
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobRepo) List(limit, offset int) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeJobRepo) ListByOwner(ownerID string) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if j.OwnerID == ownerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CountAll() (int64, error) {
	return int64(len(f.jobs)), nil
}

type fakeAppRepo struct {
	jobs *fakeJobRepo
	apps map[string]*models.Application
	seq  int

	forceCreateConflict bool
	staleOnTransition   bool // первый TransitionStatus проигрывает гонку
}

func newFakeAppRepo(jobs *fakeJobRepo) *fakeAppRepo {
	return &fakeAppRepo{jobs: jobs, apps: make(map[string]*models.Application)}
}

func (f *fakeAppRepo) addApplication(jobID, applicantID string, status models.ApplicationStatus) *models.Application {
	f.seq++
	app := &models.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      status,
		SubmittedAt: time.Now(),
	}
	app.ID = fmt.Sprintf("app-%d", f.seq)
	f.apps[app.ID] = app
	return app
}

func (f *fakeAppRepo) Create(app *models.Application) error {
	if f.forceCreateConflict {
		return repositories.ErrApplicationExists
	}
	for _, existing := range f.apps {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID && existing.Status.IsLive() {
			return repositories.ErrApplicationExists
		}
	}
	f.seq++
	app.ID = fmt.Sprintf("app-%d", f.seq)
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now()
	}
	f.apps[app.ID] = app
	return nil
}

func (f *fakeAppRepo) FindByID(id string) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	copied := *app
	if job, ok := f.jobs.jobs[app.JobID]; ok {
		copied.Job = job
	}
	return &copied, nil
}

func (f *fakeAppRepo) FindLiveByJobAndApplicant(jobID, applicantID string) (*models.Application, error) {
	for _, app := range f.apps {
		if app.JobID == jobID && app.ApplicantID == applicantID && app.Status.IsLive() {
			copied := *app
			return &copied, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (f *fakeAppRepo) UpdateContent(app *models.Application) error {
	stored, ok := f.apps[app.ID]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	stored.CoverLetter = app.CoverLetter
	stored.ResumeKey = app.ResumeKey
	stored.ResumeContentType = app.ResumeContentType
	stored.ResumeSize = app.ResumeSize
	return nil
}

func (f *fakeAppRepo) TransitionStatus(id string, from, to models.ApplicationStatus) error {
	app, ok := f.apps[id]
	if !ok {
		return repositories.ErrStaleStatus
	}
	if f.staleOnTransition {
		// Конкурент успел раньше и перевел отклик в to
		f.staleOnTransition = false
		app.Status = to
		return repositories.ErrStaleStatus
	}
	if app.Status != from {
		return repositories.ErrStaleStatus
	}
	app.Status = to
	return nil
}

func (f *fakeAppRepo) Delete(id string) error {
	if _, ok := f.apps[id]; !ok {
		return repositories.ErrApplicationNotFound
	}
	delete(f.apps, id)
	return nil
}

func (f *fakeAppRepo) DeleteByApplicant(applicantID string) error {
	for id, app := range f.apps {
		if app.ApplicantID == applicantID {
			delete(f.apps, id)
		}
	}
	return nil
}

func (f *fakeAppRepo) ListByJob(jobID string) ([]models.Application, error) {
	var out []models.Application
	for _, app := range f.apps {
		if app.JobID == jobID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) ListByApplicant(applicantID string) ([]models.Application, error) {
	var out []models.Application
	for _, app := range f.apps {
		if app.ApplicantID == applicantID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) ListByJobOwner(ownerID string) ([]models.Application, error) {
	var out []models.Application
	for _, app := range f.apps {
		if job, ok := f.jobs.jobs[app.JobID]; ok && job.OwnerID == ownerID {
			out = append(out, *app)
		}
	}
	return out, nil
}

type fakeResumeService struct {
	uploadErr error
	deleteErr error
	uploaded  []string
	deleted   []string
}

func (f *fakeResumeService) Upload(ctx context.Context, applicantID, jobID string, file *multipart.FileHeader) (*ResumeArtifact, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	key := fmt.Sprintf("resumes/%s-%s-test.pdf", applicantID, jobID)
	f.uploaded = append(f.uploaded, key)
	return &ResumeArtifact{Key: key, ContentType: "application/pdf", Size: file.Size}, nil
}

func (f *fakeResumeService) SignURL(ctx context.Context, actor auth.Actor, app *models.Application) (*dto.SignedResumeURL, error) {
	return &dto.SignedResumeURL{URL: "/signed/" + app.ResumeKey, ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func (f *fakeResumeService) DeleteArtifact(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

// -------- fixture --------

type applicationFixture struct {
	jobs    *fakeJobRepo
	apps    *fakeAppRepo
	resumes *fakeResumeService
	notices *notify.Queue
	svc     ApplicationService

	owner     auth.Actor
	applicant auth.Actor
	admin     auth.Actor
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()

	jobs := newFakeJobRepo()
	apps := newFakeAppRepo(jobs)
	resumes := &fakeResumeService{}
	notices := notify.NewQueue(time.Minute, 10)

	f := &applicationFixture{
		jobs:      jobs,
		apps:      apps,
		resumes:   resumes,
		notices:   notices,
		svc:       NewApplicationService(apps, jobs, resumes, notices),
		owner:     auth.Actor{ID: "owner-1", Role: models.UserRoleBusiness},
		applicant: auth.Actor{ID: "applicant-1", Role: models.UserRoleApplicant},
		admin:     auth.Actor{ID: "admin-1", Role: models.UserRoleAdmin},
	}
	jobs.addJob("job-1", f.owner.ID, "Go Developer")
	return f
}

func testFileHeader(size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "cv.pdf", Size: size}
}

// -------- Submit --------

func TestApplicationService_Submit(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Submit(ctx, f.applicant, &dto.SubmitApplicationRequest{
		JobID:       "job-1",
		CoverLetter: "Hire me",
		Resume:      testFileHeader(1024),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusPending, resp.Status)
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, f.applicant.ID, resp.ApplicantID)
	assert.True(t, resp.HasResume)
	assert.Len(t, f.resumes.uploaded, 1)

	// Владелец вакансии получает уведомление о новом отклике
	msgs := f.notices.Drain(f.owner.ID)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Go Developer")
}

func TestApplicationService_Submit_WithoutResumeNeedsAck(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()

	// Без файла и без подтверждения - ошибка валидации
	_, err := f.svc.Submit(ctx, f.applicant, &dto.SubmitApplicationRequest{JobID: "job-1"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	// С явным подтверждением - отклик создается без резюме
	resp, err := f.svc.Submit(ctx, f.applicant, &dto.SubmitApplicationRequest{JobID: "job-1", NoResume: true})
	require.NoError(t, err)
	assert.False(t, resp.HasResume)
}

func TestApplicationService_Submit_Duplicate(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)

	_, err := f.svc.Submit(ctx, f.applicant, &dto.SubmitApplicationRequest{JobID: "job-1", NoResume: true})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
}

func TestApplicationService_Submit_ConcurrentConflict(t *testing.T) {
	t.Parallel()

	// Предварительная проверка прошла, но хранилище отвергло вставку:
	// проигравший гонку Submit получает тот же ErrAlreadyApplied
	f := newApplicationFixture(t)
	f.apps.forceCreateConflict = true

	_, err := f.svc.Submit(context.Background(), f.applicant, &dto.SubmitApplicationRequest{JobID: "job-1", NoResume: true})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
}

func TestApplicationService_Submit_AfterWithdrawAllowed(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusWithdrawn)

	// Withdrawn не занимает слот уникальности: повторная подача разрешена
	resp, err := f.svc.Submit(ctx, f.applicant, &dto.SubmitApplicationRequest{JobID: "job-1", NoResume: true})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, resp.Status)
}

func TestApplicationService_Submit_Denied(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.owner, &dto.SubmitApplicationRequest{JobID: "job-1", NoResume: true})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestApplicationService_Submit_JobNotFound(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)

	_, err := f.svc.Submit(context.Background(), f.applicant, &dto.SubmitApplicationRequest{JobID: "missing", NoResume: true})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

// -------- Accept / Decline --------

func TestApplicationService_Accept(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)

	resp, err := f.svc.Accept(ctx, f.owner, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, resp.Status)

	// Соискатель получает уведомление о смене статуса
	msgs := f.notices.Drain(f.applicant.ID)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "accepted")
}

func TestApplicationService_Accept_Idempotent(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusAccepted)

	// Повторный Accept уже принятого - no-op, не ошибка
	resp, err := f.svc.Accept(ctx, f.owner, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, resp.Status)
	assert.Empty(t, f.notices.Drain(f.applicant.ID))
}

func TestApplicationService_Accept_FromTerminalStatus(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusDeclined)

	_, err := f.svc.Accept(ctx, f.owner, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestApplicationService_Accept_LostRaceToSameTarget(t *testing.T) {
	t.Parallel()

	// Конкурент перевел отклик в тот же целевой статус: перечитываем
	// и считаем операцию успешной
	f := newApplicationFixture(t)
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)
	f.apps.staleOnTransition = true

	resp, err := f.svc.Accept(context.Background(), f.owner, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, resp.Status)
}

func TestApplicationService_Decline(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)

	resp, err := f.svc.Decline(ctx, f.owner, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDeclined, resp.Status)

	// Запись осталась: окончательное удаление - отдельный явный шаг
	_, err = f.apps.FindByID(app.ID)
	assert.NoError(t, err)
}

func TestApplicationService_Transition_DeniedForOthers(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)

	otherBusiness := auth.Actor{ID: "owner-2", Role: models.UserRoleBusiness}
	_, err := f.svc.Accept(ctx, otherBusiness, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = f.svc.Accept(ctx, f.applicant, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	// Админ проходит
	_, err = f.svc.Accept(ctx, f.admin, app.ID)
	assert.NoError(t, err)
}

// -------- UpdateContent / Withdraw --------

func TestApplicationService_UpdateContent_PendingOnly(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	newLetter := "updated cover letter"

	pending := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)
	resp, err := f.svc.UpdateContent(ctx, f.applicant, pending.ID, &dto.UpdateApplicationRequest{CoverLetter: &newLetter})
	require.NoError(t, err)
	assert.Equal(t, newLetter, resp.CoverLetter)
	// Статус не изменился
	assert.Equal(t, models.ApplicationStatusPending, resp.Status)

	accepted := f.apps.addApplication("job-1", "applicant-2", models.ApplicationStatusAccepted)
	_, err = f.svc.UpdateContent(ctx, auth.Actor{ID: "applicant-2", Role: models.UserRoleApplicant}, accepted.ID, &dto.UpdateApplicationRequest{CoverLetter: &newLetter})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotEditable)
}

func TestApplicationService_Withdraw(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)

	require.NoError(t, f.svc.Withdraw(ctx, f.applicant, app.ID))

	stored, err := f.apps.FindByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusWithdrawn, stored.Status)
}

func TestApplicationService_Withdraw_NotPending(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusAccepted)

	err := f.svc.Withdraw(context.Background(), f.applicant, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotEditable)
}

// -------- Delete --------

func TestApplicationService_Delete_CleansArtifact(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusDeclined)
	f.apps.apps[app.ID].ResumeKey = "resumes/some-key.pdf"

	warning, err := f.svc.Delete(ctx, f.owner, app.ID)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, []string{"resumes/some-key.pdf"}, f.resumes.deleted)

	_, err = f.apps.FindByID(app.ID)
	assert.ErrorIs(t, err, repositories.ErrApplicationNotFound)
}

func TestApplicationService_Delete_ArtifactFailureIsWarning(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusDeclined)
	f.apps.apps[app.ID].ResumeKey = "resumes/some-key.pdf"
	f.resumes.deleteErr = errors.New("storage down")

	// Метаданные удалены, сбой очистки хранилища не откатывает операцию
	warning, err := f.svc.Delete(ctx, f.owner, app.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, warning)

	_, err = f.apps.FindByID(app.ID)
	assert.ErrorIs(t, err, repositories.ErrApplicationNotFound)
}

func TestApplicationService_Delete_DeniedForApplicant(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusDeclined)

	_, err := f.svc.Delete(context.Background(), f.applicant, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

// -------- Reads --------

func TestApplicationService_Get_Visibility(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)

	_, err := f.svc.Get(ctx, f.applicant, app.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, f.owner, app.ID)
	assert.NoError(t, err)

	stranger := auth.Actor{ID: "applicant-9", Role: models.UserRoleApplicant}
	_, err = f.svc.Get(ctx, stranger, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestApplicationService_ListForJob(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	f.apps.addApplication("job-1", "applicant-1", models.ApplicationStatusPending)
	f.apps.addApplication("job-1", "applicant-2", models.ApplicationStatusAccepted)

	apps, err := f.svc.ListForJob(ctx, f.owner, "job-1")
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	otherBusiness := auth.Actor{ID: "owner-2", Role: models.UserRoleBusiness}
	_, err = f.svc.ListForJob(ctx, otherBusiness, "job-1")
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestApplicationService_ListMine(t *testing.T) {
	t.Parallel()

	f := newApplicationFixture(t)
	ctx := context.Background()
	f.apps.addApplication("job-1", f.applicant.ID, models.ApplicationStatusPending)
	f.apps.addApplication("job-1", "someone-else", models.ApplicationStatusPending)

	apps, err := f.svc.ListMine(ctx, f.applicant)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, f.applicant.ID, apps[0].ApplicantID)
}
