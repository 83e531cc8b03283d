package identity

// User профиль клиента у провайдера аутентификации
type User struct {
	UID           string
	DisplayName   string
	Email         string
	EmailVerified bool
	PhoneNumber   string
}
