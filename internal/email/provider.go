package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// SendVerification отправляет email верификации
	SendVerification(to string, token string) error
}
