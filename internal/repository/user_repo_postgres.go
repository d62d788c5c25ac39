package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"opinai/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

const userColumns = `id, nome, email, password_hash, telefone, cpf, foto, is_admin, pontos, created_at`

type pgUserRepository struct {
	db PgxQuerier
}

// NewPostgresUserRepository creates a UserRepository backed by PostgreSQL
func NewPostgresUserRepository(db PgxQuerier) UserRepository {
	return &pgUserRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Nome, &user.Email, &user.PasswordHash, &user.Telefone,
		&user.CPF, &user.Foto, &user.IsAdmin, &user.Pontos, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	id := uuid.NewString()
	sql := `INSERT INTO users (` + userColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, sql, id, user.Nome, user.Email, user.PasswordHash, user.Telefone,
		user.CPF, user.Foto, user.IsAdmin, user.Pontos, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

// FindByEmail retrieves a user by email. A missing user is (nil, nil).
func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by ID. A missing user is (nil, nil).
func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// Update applies the non-nil fields of upd and returns the stored record
func (r *pgUserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	if upd.IsEmpty() {
		user, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		return user, nil
	}

	var sets []string
	var args []any
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("nome", upd.Nome)
	add("email", upd.Email)
	add("password_hash", upd.PasswordHash)
	add("telefone", upd.Telefone)
	add("cpf", upd.CPF)
	add("foto", upd.Foto)
	args = append(args, id)

	sql := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args))
	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// IncrementPoints relies on a single UPDATE so concurrent credits never lose a delta
func (r *pgUserRepository) IncrementPoints(ctx context.Context, id string, delta float64) (float64, error) {
	sql := `UPDATE users SET pontos = pontos + $1 WHERE id = $2 RETURNING pontos`
	var total float64
	err := r.db.QueryRow(ctx, sql, delta, id).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment points: %w", err)
	}
	return total, nil
}
