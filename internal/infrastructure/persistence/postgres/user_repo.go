package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const userColumns = `
	id, name, avatar_url, location, vibe, approval_rating, review_rating,
	review_count, availability_mode, status_note, interests
`

// UserRepository implements user.Repository for PostgreSQL.
// Match percentages are computed per request and never stored.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// List returns all users in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY position`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// GetByID returns a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id user.ID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Save inserts or updates a user. Insertion order is kept on update.
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO users (
			id, name, avatar_url, location, vibe, approval_rating, review_rating,
			review_count, availability_mode, status_note, interests
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			location = EXCLUDED.location,
			vibe = EXCLUDED.vibe,
			approval_rating = EXCLUDED.approval_rating,
			review_rating = EXCLUDED.review_rating,
			review_count = EXCLUDED.review_count,
			availability_mode = EXCLUDED.availability_mode,
			status_note = EXCLUDED.status_note,
			interests = EXCLUDED.interests,
			updated_at = NOW()
	`

	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}

	_, err := r.conn.Exec(ctx, query,
		string(u.ID),
		u.Name,
		u.AvatarURL,
		u.Location,
		u.Vibe,
		u.ApprovalRating,
		u.ReviewRating,
		u.ReviewCount,
		u.AvailabilityMode,
		u.StatusNote,
		interests,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u  user.User
		id string
	)

	err := row.Scan(
		&id,
		&u.Name,
		&u.AvatarURL,
		&u.Location,
		&u.Vibe,
		&u.ApprovalRating,
		&u.ReviewRating,
		&u.ReviewCount,
		&u.AvailabilityMode,
		&u.StatusNote,
		&u.Interests,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.ID = user.ID(id)
	return &u, nil
}
