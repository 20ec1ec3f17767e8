package user

import "context"

// Repository определяет доступ к списку кандидатов.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// List возвращает всех пользователей в порядке хранения.
	// Порядок важен: ранжирование стабильно относительно него.
	List(ctx context.Context) ([]User, error)

	// GetByID возвращает пользователя по ID.
	// Возвращает shared.ErrUserNotFound, если пользователь не найден.
	GetByID(ctx context.Context, id ID) (*User, error)

	// Save создаёт или обновляет пользователя.
	Save(ctx context.Context, u *User) error
}
