package repository

import (
	"context"
	"database/sql"
	"errors"

	"accountd/internal/models"
)

var ErrTokenNotFound = errors.New("reset token not found")

// PasswordResetRepository persists at most one live reset token per user.
// user_id carries a UNIQUE constraint; the handler does delete-then-insert so
// a fresh request supersedes any outstanding token.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	return r.db.QueryRowContext(ctx, query, token.ID, token.UserID, token.TokenHash, token.CreatedAt).Scan(&token.CreatedAt)
}

func (r *passwordResetRepository) GetByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, created_at
		FROM password_reset_tokens
		WHERE user_id = $1
	`

	var t models.PasswordResetToken
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// DeleteByUserID removes the user's outstanding token. Deleting a user with no
// token is not an error; supersede and consume both funnel through here.
func (r *passwordResetRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID)
	return err
}
