package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"
)

func TestDecide_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	err := Decide(Actor{}, ActionRead, JobResource{OwnerID: "u1"})
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
}

func TestDecide_JobRules(t *testing.T) {
	t.Parallel()

	applicant := Actor{ID: "a1", Role: models.UserRoleApplicant}
	owner := Actor{ID: "b1", Role: models.UserRoleBusiness}
	otherBusiness := Actor{ID: "b2", Role: models.UserRoleBusiness}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		res     Resource
		wantErr error
	}{
		{"любой аутентифицированный читает вакансию", applicant, ActionRead, JobResource{OwnerID: "b1"}, nil},
		{"business создает вакансию", owner, ActionCreate, JobResource{OwnerID: "b1"}, nil},
		{"applicant не создает вакансию", applicant, ActionCreate, JobResource{}, apperrors.ErrAccessDenied},
		{"владелец редактирует свою вакансию", owner, ActionUpdate, JobResource{OwnerID: "b1"}, nil},
		{"чужой business не редактирует", otherBusiness, ActionUpdate, JobResource{OwnerID: "b1"}, apperrors.ErrAccessDenied},
		{"владелец удаляет свою вакансию", owner, ActionDelete, JobResource{OwnerID: "b1"}, nil},
		{"applicant не удаляет вакансию", applicant, ActionDelete, JobResource{OwnerID: "b1"}, apperrors.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(tt.actor, tt.action, tt.res)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDecide_ApplicationRules(t *testing.T) {
	t.Parallel()

	applicant := Actor{ID: "a1", Role: models.UserRoleApplicant}
	otherApplicant := Actor{ID: "a2", Role: models.UserRoleApplicant}
	jobOwner := Actor{ID: "b1", Role: models.UserRoleBusiness}
	otherBusiness := Actor{ID: "b2", Role: models.UserRoleBusiness}

	app := ApplicationResource{ApplicantID: "a1", JobOwnerID: "b1"}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		wantErr error
	}{
		{"applicant подает отклик", applicant, ActionCreate, nil},
		{"business не подает отклик", jobOwner, ActionCreate, apperrors.ErrAccessDenied},
		{"владелец вакансии переводит статус", jobOwner, ActionTransition, nil},
		{"чужой business не переводит статус", otherBusiness, ActionTransition, apperrors.ErrAccessDenied},
		{"соискатель не переводит статус своего отклика", applicant, ActionTransition, apperrors.ErrAccessDenied},
		{"соискатель читает свой отклик", applicant, ActionRead, nil},
		{"владелец вакансии читает отклик", jobOwner, ActionRead, nil},
		{"чужой соискатель не читает отклик", otherApplicant, ActionRead, apperrors.ErrAccessDenied},
		{"чужой business не читает отклик", otherBusiness, ActionRead, apperrors.ErrAccessDenied},
		{"соискатель редактирует свой отклик", applicant, ActionUpdate, nil},
		{"владелец вакансии не редактирует содержимое", jobOwner, ActionUpdate, apperrors.ErrAccessDenied},
		{"владелец вакансии удаляет отклик", jobOwner, ActionDelete, nil},
		{"соискатель не удаляет отклик", applicant, ActionDelete, apperrors.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(tt.actor, tt.action, app)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDecide_AccountRules(t *testing.T) {
	t.Parallel()

	user := Actor{ID: "u1", Role: models.UserRoleApplicant}

	assert.NoError(t, Decide(user, ActionRead, AccountResource{ID: "u1"}))
	assert.NoError(t, Decide(user, ActionUpdate, AccountResource{ID: "u1"}))
	assert.NoError(t, Decide(user, ActionDelete, AccountResource{ID: "u1"}))

	assert.ErrorIs(t, Decide(user, ActionRead, AccountResource{ID: "u2"}), apperrors.ErrAccessDenied)
	assert.ErrorIs(t, Decide(user, ActionDelete, AccountResource{ID: "u2"}), apperrors.ErrAccessDenied)
}

func TestDecide_AdminRules(t *testing.T) {
	t.Parallel()

	admin := Actor{ID: "adm1", Role: models.UserRoleAdmin}

	// Админу разрешено все на чужих ресурсах
	assert.NoError(t, Decide(admin, ActionUpdate, JobResource{OwnerID: "b1"}))
	assert.NoError(t, Decide(admin, ActionTransition, ApplicationResource{ApplicantID: "a1", JobOwnerID: "b1"}))
	assert.NoError(t, Decide(admin, ActionDelete, AccountResource{ID: "u1"}))

	// Кроме удаления собственного аккаунта
	err := Decide(admin, ActionDelete, AccountResource{ID: "adm1"})
	assert.ErrorIs(t, err, apperrors.ErrCannotDeleteSelf)

	// Читать и редактировать себя админ может
	assert.NoError(t, Decide(admin, ActionRead, AccountResource{ID: "adm1"}))
	assert.NoError(t, Decide(admin, ActionUpdate, AccountResource{ID: "adm1"}))
}
