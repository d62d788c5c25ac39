package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"opinai/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "nome", "email", "password_hash", "telefone", "cpf", "foto", "is_admin", "pontos", "created_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)
	now := time.Now()
	user := &model.User{Nome: "Ana", Email: "ana@opinai.com", PasswordHash: "hash", CreatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(pgxmock.AnyArg(), "Ana", "ana@opinai.com", "hash", "", "", "", false, 0.0, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Create_Duplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	user := &model.User{Email: "ana@opinai.com"}
	err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Empty(t, user.ID)
}

func TestPostgresUserRepository_Create_OtherError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &model.User{Email: "ana@opinai.com"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateKey)
}

func TestPostgresUserRepository_FindByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ana@opinai.com").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", "Ana", "ana@opinai.com", "hash", "1199", "123", "", true, 42.5, now))

	user, err := repo.FindByEmail(context.Background(), "ana@opinai.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, 42.5, user.Pontos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestPostgresUserRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)
	nome, telefone := "Ana Maria", "11988887777"

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET nome = $1, telefone = $2 WHERE id = $3 RETURNING")).
		WithArgs(nome, telefone, "u-1").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", nome, "ana@opinai.com", "hash", telefone, "", "", false, 10.0, time.Now()))

	user, err := repo.Update(context.Background(), "u-1", model.UserUpdate{Nome: &nome, Telefone: &telefone})
	require.NoError(t, err)
	assert.Equal(t, nome, user.Nome)
	assert.Equal(t, telefone, user.Telefone)
	assert.Equal(t, 10.0, user.Pontos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Update_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)
	email := "taken@opinai.com"

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET email = $1 WHERE id = $2")).
		WithArgs(email, "u-1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), "u-1", model.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestPostgresUserRepository_IncrementPoints(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	// The increment must happen inside the statement, never as read-then-write
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET pontos = pontos + $1 WHERE id = $2 RETURNING pontos")).
		WithArgs(35.0, "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"pontos"}).AddRow(135.0))

	total, err := repo.IncrementPoints(context.Background(), "u-1", 35.0)
	require.NoError(t, err)
	assert.Equal(t, 135.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_IncrementPoints_UnknownUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET pontos = pontos + $1")).
		WithArgs(10.0, "ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.IncrementPoints(context.Background(), "ghost", 10.0)
	assert.ErrorIs(t, err, ErrNotFound)
}
