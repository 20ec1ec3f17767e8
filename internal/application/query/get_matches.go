// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aviato-app/aviato-match/internal/domain/availability"
	"github.com/aviato-app/aviato-match/internal/domain/matching"
	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/internal/domain/user"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MATCHES QUERY
// Строит экран списка матчей: кандидаты в порядке показа и карточка
// для каждого из них. Пока выбрано меньше пяти интересов, список
// упорядочен по популярности, дальше по совместимости.
// ══════════════════════════════════════════════════════════════════════════════

// GetMatchesQuery содержит параметры запроса списка матчей.
type GetMatchesQuery struct {
	// UserID - пользователь, который смотрит список.
	UserID string
}

// Validate проверяет корректность параметров.
func (q GetMatchesQuery) Validate() error {
	if !user.ID(q.UserID).IsValid() {
		return shared.NewDomainError("matching", "GetMatches", shared.ErrInvalidID, "user id is required")
	}
	return nil
}

// MatchCardDTO - карточка кандидата в списке.
type MatchCardDTO struct {
	// ─────────────────────────────────────────────────────────────────────────
	// Профиль
	// ─────────────────────────────────────────────────────────────────────────

	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Location  string `json:"location,omitempty"`
	Vibe      string `json:"vibe,omitempty"`

	// ─────────────────────────────────────────────────────────────────────────
	// Репутация
	// ─────────────────────────────────────────────────────────────────────────

	// ApprovalRating - сырое значение, используется для сортировки в browse.
	ApprovalRating int `json:"approval_rating"`

	// ApprovalLabel - "+24" или "-3".
	ApprovalLabel string `json:"approval_label"`

	// ReviewLabel - "4.8 (31)".
	ReviewLabel string `json:"review_label"`

	// ─────────────────────────────────────────────────────────────────────────
	// Совместимость (только в режиме match)
	// ─────────────────────────────────────────────────────────────────────────

	MatchPercentage *int   `json:"match_percentage,omitempty"`
	MatchQuality    string `json:"match_quality,omitempty"`

	// ─────────────────────────────────────────────────────────────────────────
	// Доступность
	// ─────────────────────────────────────────────────────────────────────────

	// CanMessage - кнопка "написать" активна.
	CanMessage   bool   `json:"can_message"`
	StatusColor  string `json:"status_color"`
	StatusIcon   string `json:"status_icon,omitempty"`
	StatusText   string `json:"status_text,omitempty"`
	StatusReason string `json:"status_reason,omitempty"`
}

// MatchListResult - результат запроса.
type MatchListResult struct {
	// Mode - "browse" или "match".
	Mode matching.Mode `json:"mode"`

	// SelectionSize - сколько интересов выбрано сейчас.
	SelectionSize int `json:"selection_size"`

	// MatchThreshold - сколько нужно выбрать для режима match.
	MatchThreshold int `json:"match_threshold"`

	// Cards - кандидаты в порядке показа.
	Cards []MatchCardDTO `json:"cards"`
}

// GetMatchesHandler обрабатывает запросы списка матчей.
type GetMatchesHandler struct {
	users      user.Repository
	selections selection.Store
	scorer     matching.Scorer
	log        *logger.Logger
}

// NewGetMatchesHandler создаёт новый обработчик. Если scorer nil,
// используется пересечение интересов.
func NewGetMatchesHandler(
	users user.Repository,
	selections selection.Store,
	scorer matching.Scorer,
	log *logger.Logger,
) *GetMatchesHandler {
	if scorer == nil {
		scorer = matching.InterestOverlapScorer{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GetMatchesHandler{
		users:      users,
		selections: selections,
		scorer:     scorer,
		log:        log,
	}
}

// Handle выполняет запрос.
func (h *GetMatchesHandler) Handle(ctx context.Context, query GetMatchesQuery) (*MatchListResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	// Пользователи и выбор грузятся параллельно.
	var (
		all       []user.User
		committed selection.Set
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = h.users.List(gctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		committed, err = h.selections.Committed(gctx, query.UserID)
		if err != nil {
			return fmt.Errorf("load selection: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := committed.Items()
	ranked := matching.Rank(all, user.ID(query.UserID), items, h.scorer)

	result := &MatchListResult{
		Mode:           matching.ModeFor(len(items)),
		SelectionSize:  len(items),
		MatchThreshold: matching.MatchThreshold,
		Cards:          make([]MatchCardDTO, 0, len(ranked)),
	}
	for _, u := range ranked {
		result.Cards = append(result.Cards, BuildMatchCard(u))
	}

	h.log.Debug("matches ranked",
		logger.UserID(query.UserID),
		logger.SelectionSize(len(items)),
		logger.String("mode", string(result.Mode)),
		logger.Int("candidates", len(result.Cards)),
		logger.Latency(time.Since(start)),
	)

	return result, nil
}

// BuildMatchCard собирает карточку из записи пользователя.
func BuildMatchCard(u user.User) MatchCardDTO {
	status := availability.Resolve(u)

	card := MatchCardDTO{
		UserID:         u.ID.String(),
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		Location:       u.Location,
		Vibe:           u.Vibe,
		ApprovalRating: u.ApprovalRating,
		ApprovalLabel:  u.ApprovalLabel(),
		ReviewLabel:    u.ReviewLabel(),
		CanMessage:     status.Available,
		StatusColor:    string(status.ModeColor),
		StatusIcon:     string(status.Icon),
		StatusText:     status.DisplayText(),
		StatusReason:   status.Reason,
	}

	if u.HasMatchPercentage() {
		pct := *u.MatchPercentage
		card.MatchPercentage = &pct
		card.MatchQuality = string(matching.Percentage(pct).Quality())
	}

	return card
}
