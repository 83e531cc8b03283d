package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
)

// Client клиент Firebase Auth для получения профиля клиента
type Client struct {
	users   UserGetter
	timeout time.Duration
	log     Logger
}

// NewClient создает новый экземпляр клиента
// users может быть nil, если Firebase отключён: тогда все запросы деградируют
func NewClient(users UserGetter, timeout time.Duration, log Logger) *Client {
	return &Client{
		users:   users,
		timeout: timeout,
		log:     log,
	}
}

// GetUser получает профиль по UID
func (c *Client) GetUser(ctx context.Context, uid string) (*User, error) {
	if c.users == nil {
		return nil, fmt.Errorf("%w: identity provider is not configured", ErrInternal)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	record, err := c.users.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	if record.Disabled {
		return nil, ErrUserDisabled
	}

	user := &User{
		UID:           uid,
		EmailVerified: record.EmailVerified,
	}
	if record.UserInfo != nil {
		user.DisplayName = record.DisplayName
		user.Email = record.Email
		user.PhoneNumber = record.PhoneNumber
	}

	return user, nil
}

// GetUserWithGracefulDegradation получает профиль клиента с graceful degradation
// При недоступности провайдера возвращает ErrServiceDegraded, бронирование продолжается без имени и email
func (c *Client) GetUserWithGracefulDegradation(ctx context.Context, uid string) (*User, error) {
	user, err := c.GetUser(ctx, uid)
	if err != nil {
		// Бизнес-ошибки пробрасываем как есть
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUserDisabled) {
			c.log.Warn("Identity lookup rejected uid=%s: %v", uid, err)
			return nil, err
		}

		c.log.Error("Identity provider unavailable, applying graceful degradation for uid=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: uid=%s, error=%v", ErrServiceDegraded, uid, err)
	}

	return user, nil
}
