package dto

import "jobboard_backend/internal/models"

type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

type ProfileResponse struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	FullName   string            `json:"full_name"`
	Role       models.UserRole   `json:"role"`
	Status     models.UserStatus `json:"status"`
	IsVerified bool              `json:"is_verified"`
}

// DeleteAccountResult - результат удаления аккаунта.
// Warning заполняется при частичном сбое (метаданные удалены,
// но отзыв учетных данных не удался, или наоборот); основной
// эффект при этом не откатывается.
type DeleteAccountResult struct {
	Deleted bool   `json:"deleted"`
	Warning string `json:"warning,omitempty"`
}
