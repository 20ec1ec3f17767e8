// Package user содержит модель пользователя, которую видит экран подбора.
// Запись пользователя приходит извне (хранилище сессии) и для ядра
// доступна только на чтение.
package user

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aviato-app/aviato-match/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID представляет непрозрачный идентификатор пользователя.
type ID string

// IsValid проверяет, что ID непустой.
func (id ID) IsValid() bool {
	return len(id) > 0
}

// String возвращает строковое представление.
func (id ID) String() string {
	return string(id)
}

// ══════════════════════════════════════════════════════════════════════════════
// USER
// ══════════════════════════════════════════════════════════════════════════════

// User — запись кандидата, как её отображает список матчей.
type User struct {
	// ─────────────────────────────────────────────────────────────────────────
	// Идентификация
	// ─────────────────────────────────────────────────────────────────────────

	ID        ID     `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required,max=100"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Location  string `json:"location,omitempty" validate:"max=100"`
	Vibe      string `json:"vibe,omitempty" validate:"max=100"`

	// ─────────────────────────────────────────────────────────────────────────
	// Репутация
	// ─────────────────────────────────────────────────────────────────────────

	// ApprovalRating - может быть отрицательным.
	ApprovalRating int `json:"approval_rating"`

	// ReviewRating - обычно 0..5.
	ReviewRating float64 `json:"review_rating" validate:"gte=0,lte=5"`

	ReviewCount int `json:"review_count" validate:"gte=0"`

	// ─────────────────────────────────────────────────────────────────────────
	// Подбор и доступность
	// ─────────────────────────────────────────────────────────────────────────

	// MatchPercentage заполняется только после прохода ранжирования.
	MatchPercentage *int `json:"match_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`

	// AvailabilityMode - сырой тег режима доступности. Неизвестные
	// значения допустимы: резолвер трактует их как "недоступен".
	AvailabilityMode string `json:"availability_mode"`

	// StatusNote - необязательная подпись к статусу ("вернусь в 18:00").
	StatusNote string `json:"status_note,omitempty" validate:"max=140"`

	// Interests - теги интересов из профиля.
	Interests []string `json:"interests,omitempty" validate:"max=20,dive,required"`
}

var validate = validator.New()

// Validate проверяет запись перед сохранением.
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return shared.WrapError("user", "Validate", shared.ErrInvalidUser, "invalid user record", err)
	}
	return nil
}

// WithMatchPercentage возвращает копию записи с проставленным процентом.
// Исходная запись не меняется.
func (u User) WithMatchPercentage(p int) User {
	u.MatchPercentage = &p
	return u
}

// HasMatchPercentage сообщает, прошёл ли пользователь ранжирование.
func (u User) HasMatchPercentage() bool {
	return u.MatchPercentage != nil
}

// ApprovalLabel возвращает рейтинг одобрения для карточки: "+3", "0", "-2".
func (u User) ApprovalLabel() string {
	if u.ApprovalRating > 0 {
		return "+" + strconv.Itoa(u.ApprovalRating)
	}
	return strconv.Itoa(u.ApprovalRating)
}

// ReviewLabel возвращает строку отзывов: "4.8 (12)".
func (u User) ReviewLabel() string {
	return fmt.Sprintf("%s (%d)", strconv.FormatFloat(u.ReviewRating, 'f', -1, 64), u.ReviewCount)
}
