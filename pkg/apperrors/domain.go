package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409).
// Проигравший гонку клиент должен перечитать состояние, а не слепо повторять.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (для частых, статичных ошибок)
// =========================================================================

// --- Auth ---

// ErrAccessDenied - единственная форма отказа Authorization Gate.
// Всегда 403, никогда не маскируется под generic fetch error.
var ErrAccessDenied = New(
	CodeForbidden,
	"auth",
	"Access denied",
	http.StatusForbidden,
)

// ErrAuthenticationRequired - актор не аутентифицирован.
var ErrAuthenticationRequired = New(
	CodeUnauthorized,
	"auth",
	"Authentication required",
	http.StatusUnauthorized,
)

// ErrInvalidCredentials - неверный email или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrWeakPassword - пароль слишком слабый.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// ErrInvalidUserRole - операция не предусмотрена для роли пользователя.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// ErrCannotDeleteSelf - админ не может удалить собственный аккаунт
// через админскую панель управления.
var ErrCannotDeleteSelf = New(
	CodeForbidden,
	"business_logic",
	"You cannot delete your own account through this route",
	http.StatusForbidden,
)

// --- Applications ---

// ErrAlreadyApplied - у пары (job, applicant) уже есть живой отклик.
var ErrAlreadyApplied = New(
	CodeConflict,
	"application",
	"You have already applied to this job",
	http.StatusConflict,
)

// ErrApplicationNotEditable - отклик уже в терминальном статусе.
var ErrApplicationNotEditable = New(
	CodeInvalidStatus,
	"application",
	"Application is no longer editable",
	http.StatusConflict,
)

// ErrInvalidTransition - переход статуса не разрешен машиной состояний.
var ErrInvalidTransition = New(
	CodeInvalidStatus,
	"application",
	"Status transition is not allowed",
	http.StatusConflict,
)

// --- Uploads & Files ---

// ErrFileTooLarge - файл превышает максимальный размер.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME-тип файла не разрешен.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
