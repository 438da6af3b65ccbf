package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `
	SELECT id, username, first_name, email, created_at
	FROM users
	WHERE id = $1
	`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &u.Username, &u.FirstName, &u.Email, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		}
		return nil, err
	}

	return &u, nil
}
