package auth

import (
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"
)

// Actor - аутентифицированная личность, выполняющая операцию.
// Строится из claims токена и передается явно вниз по стеку.
type Actor struct {
	ID   string
	Role models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

// Action - тип действия над ресурсом
type Action string

const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionTransition Action = "transition"
)

// Resource - дескриптор ресурса для проверки доступа.
// Gate чистый: он видит только владельцев, не ходит в БД.
type Resource interface {
	isResource()
}

// JobResource - вакансия. OwnerID пуст при создании.
type JobResource struct {
	OwnerID string
}

// ApplicationResource - отклик на вакансию.
type ApplicationResource struct {
	ApplicantID string
	JobOwnerID  string
}

// AccountResource - аккаунт/профиль пользователя.
type AccountResource struct {
	ID string
}

func (JobResource) isResource()         {}
func (ApplicationResource) isResource() {}
func (AccountResource) isResource()     {}

// Decide - единая точка принятия решений о доступе.
// Правила проверяются по приоритету, первое совпадение выигрывает.
// Отказ всегда возвращается как ошибка авторизации, никогда
// как generic ошибка получения данных.
func Decide(actor Actor, action Action, res Resource) error {
	if actor.ID == "" {
		return apperrors.ErrAuthenticationRequired
	}

	// Правило 1: админу разрешено все, кроме удаления собственного
	// аккаунта через админский маршрут (защита последней админской
	// личности, применяется единообразно на уровне gate).
	if actor.IsAdmin() {
		if acc, ok := res.(AccountResource); ok && action == ActionDelete && acc.ID == actor.ID {
			return apperrors.ErrCannotDeleteSelf
		}
		return nil
	}

	switch r := res.(type) {
	case JobResource:
		switch action {
		case ActionRead:
			// Правило 3: вакансии читает любой аутентифицированный актор
			return nil
		case ActionCreate:
			if actor.Role == models.UserRoleBusiness {
				return nil
			}
		case ActionUpdate, ActionDelete:
			if actor.Role == models.UserRoleBusiness && actor.ID == r.OwnerID {
				return nil
			}
		}

	case ApplicationResource:
		switch action {
		case ActionCreate:
			// Правило 4: подача отклика - только соискатель.
			// Уникальность пары (job, applicant) арбитрирует хранилище.
			if actor.Role == models.UserRoleApplicant {
				return nil
			}
		case ActionTransition:
			// Правило 5: переход статуса - владелец вакансии
			if actor.Role == models.UserRoleBusiness && actor.ID == r.JobOwnerID {
				return nil
			}
		case ActionRead:
			// Правило 6: свой отклик или владелец вакансии
			if actor.ID == r.ApplicantID {
				return nil
			}
			if actor.Role == models.UserRoleBusiness && actor.ID == r.JobOwnerID {
				return nil
			}
		case ActionUpdate:
			// Редактирование содержимого своего отклика; ограничение
			// "только pending" обеспечивает машина состояний
			if actor.Role == models.UserRoleApplicant && actor.ID == r.ApplicantID {
				return nil
			}
		case ActionDelete:
			if actor.Role == models.UserRoleBusiness && actor.ID == r.JobOwnerID {
				return nil
			}
		}

	case AccountResource:
		switch action {
		case ActionRead, ActionUpdate, ActionDelete:
			// Правило 7: свой аккаунт
			if actor.ID == r.ID {
				return nil
			}
		}
	}

	// Правило 8: по умолчанию запрещено
	return apperrors.ErrAccessDenied
}
