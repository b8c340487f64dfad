package models

type UserStatus string
type UserRole string
type ApplicationStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleApplicant UserRole = "applicant"
	UserRoleBusiness  UserRole = "business"
	UserRoleAdmin     UserRole = "admin"

	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusDeclined  ApplicationStatus = "declined"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// applicationTransitions - единственное место, где описана машина статусов
// отклика. accepted и declined терминальны; withdrawn доступен только
// самому соискателю и освобождает пару (job, applicant) для новой подачи.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending: {
		ApplicationStatusAccepted,
		ApplicationStatusDeclined,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusAccepted:  {},
	ApplicationStatusDeclined:  {},
	ApplicationStatusWithdrawn: {},
}

// CanTransitionTo проверяет, разрешен ли переход статуса.
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal возвращает true для статусов, из которых нет переходов.
func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}

// IsLive возвращает true, если отклик занимает слот уникальности
// пары (job, applicant). Withdrawn слот не занимает.
func (s ApplicationStatus) IsLive() bool {
	return s != ApplicationStatusWithdrawn
}

// ValidRole проверяет валидность роли.
func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleApplicant, UserRoleBusiness, UserRoleAdmin:
		return true
	}
	return false
}
