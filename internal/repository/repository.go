package repository

import (
	"context"
	"errors"

	"opinai/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	// IncrementPoints adds delta to the stored balance relative to its value at apply time
	// and returns the new balance.
	IncrementPoints(ctx context.Context, id string, delta float64) (float64, error)
}

// SurveyRepository defines operations for survey definitions
type SurveyRepository interface {
	Create(ctx context.Context, survey *model.Survey) error
	FindAll(ctx context.Context) ([]model.Survey, error)
}

// PgxQuerier is the subset of pgxpool.Pool used by the Postgres repositories.
// pgxmock's pool satisfies it as well.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
