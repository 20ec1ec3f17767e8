package query

import (
	"context"

	"github.com/aviato-app/aviato-match/internal/domain/matching"
	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST INTERESTS QUERY
// Словарь интересов с отметками того, что пользователь уже сохранил.
// ══════════════════════════════════════════════════════════════════════════════

// ListInterestsQuery содержит параметры запроса.
type ListInterestsQuery struct {
	UserID string
}

// InterestDTO - один тег словаря.
type InterestDTO struct {
	Tag      string `json:"tag"`
	Selected bool   `json:"selected"`
}

// InterestsResult - результат запроса.
type InterestsResult struct {
	Interests      []InterestDTO `json:"interests"`
	Selected       []string      `json:"selected"`
	Count          int           `json:"count"`
	Capacity       int           `json:"capacity"`
	MatchThreshold int           `json:"match_threshold"`
}

// ListInterestsHandler обрабатывает запросы словаря.
type ListInterestsHandler struct {
	selections selection.Store
}

// NewListInterestsHandler создаёт новый обработчик.
func NewListInterestsHandler(selections selection.Store) *ListInterestsHandler {
	return &ListInterestsHandler{selections: selections}
}

// Handle выполняет запрос.
func (h *ListInterestsHandler) Handle(ctx context.Context, query ListInterestsQuery) (*InterestsResult, error) {
	if !user.ID(query.UserID).IsValid() {
		return nil, shared.NewDomainError("selection", "ListInterests", shared.ErrInvalidID, "user id is required")
	}

	committed, err := h.selections.Committed(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	result := &InterestsResult{
		Interests:      make([]InterestDTO, 0, len(selection.Vocabulary)),
		Selected:       committed.Items(),
		Count:          committed.Len(),
		Capacity:       selection.MaxItems,
		MatchThreshold: matching.MatchThreshold,
	}
	for _, tag := range selection.Vocabulary {
		result.Interests = append(result.Interests, InterestDTO{
			Tag:      tag,
			Selected: committed.Contains(tag),
		})
	}
	return result, nil
}
