package postgres

import (
	"context"
	"fmt"

	"github.com/aviato-app/aviato-match/internal/domain/selection"
)

// ══════════════════════════════════════════════════════════════════════════════
// SELECTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SelectionRepository implements selection.Store for PostgreSQL.
type SelectionRepository struct {
	conn *Connection
}

// NewSelectionRepository creates a new SelectionRepository.
func NewSelectionRepository(conn *Connection) *SelectionRepository {
	return &SelectionRepository{conn: conn}
}

// Committed returns the committed set of a user. A user who never applied
// a selection has an empty set.
func (r *SelectionRepository) Committed(ctx context.Context, userID string) (selection.Set, error) {
	var interests []string

	err := r.conn.QueryRow(ctx,
		`SELECT interests FROM interest_selections WHERE user_id = $1`,
		userID,
	).Scan(&interests)
	if err != nil {
		if IsNoRows(err) {
			return selection.Set{}, nil
		}
		return selection.Set{}, fmt.Errorf("failed to get selection: %w", err)
	}

	return selection.NewSet(interests...), nil
}

// Commit replaces the committed set of a user.
func (r *SelectionRepository) Commit(ctx context.Context, userID string, set selection.Set) error {
	query := `
		INSERT INTO interest_selections (user_id, interests, committed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			interests = EXCLUDED.interests,
			committed_at = NOW()
	`

	if _, err := r.conn.Exec(ctx, query, userID, set.Items()); err != nil {
		return fmt.Errorf("failed to commit selection: %w", err)
	}
	return nil
}
