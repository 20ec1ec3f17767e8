package query

import (
	"context"

	"github.com/aviato-app/aviato-match/internal/domain/availability"
	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AVAILABILITY QUERY
// Отвечает на вопрос "можно ли сейчас написать этому человеку".
// ══════════════════════════════════════════════════════════════════════════════

// GetAvailabilityQuery содержит параметры запроса.
type GetAvailabilityQuery struct {
	UserID string
}

// AvailabilityDTO - статус доступности для отображения.
type AvailabilityDTO struct {
	UserID string `json:"user_id"`

	// Mode - исходный тег режима ("" для неизвестного).
	Mode string `json:"mode"`

	availability.Status

	// DisplayText - то, что показывает карточка.
	DisplayText string `json:"display_text"`
}

// GetAvailabilityHandler обрабатывает запросы доступности.
type GetAvailabilityHandler struct {
	users user.Repository
}

// NewGetAvailabilityHandler создаёт новый обработчик.
func NewGetAvailabilityHandler(users user.Repository) *GetAvailabilityHandler {
	return &GetAvailabilityHandler{users: users}
}

// Handle выполняет запрос.
func (h *GetAvailabilityHandler) Handle(ctx context.Context, query GetAvailabilityQuery) (*AvailabilityDTO, error) {
	id := user.ID(query.UserID)
	if !id.IsValid() {
		return nil, shared.NewDomainError("availability", "GetAvailability", shared.ErrInvalidID, "user id is required")
	}

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := availability.Resolve(*u)
	return &AvailabilityDTO{
		UserID:      u.ID.String(),
		Mode:        status.Mode.String(),
		Status:      status,
		DisplayText: status.DisplayText(),
	}, nil
}
