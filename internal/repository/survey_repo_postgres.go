package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"opinai/internal/model"

	"github.com/google/uuid"
)

type pgSurveyRepository struct {
	db PgxQuerier
}

// NewPostgresSurveyRepository creates a SurveyRepository backed by PostgreSQL
func NewPostgresSurveyRepository(db PgxQuerier) SurveyRepository {
	return &pgSurveyRepository{db: db}
}

// Create inserts a survey; questions are stored as an ordered JSONB array
func (r *pgSurveyRepository) Create(ctx context.Context, s *model.Survey) error {
	perguntas, err := json.Marshal(s.Perguntas)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	id := uuid.NewString()
	sql := `INSERT INTO surveys (id, nome, tempo, valor, perguntas, created_at)
            VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.Exec(ctx, sql, id, s.Nome, s.Tempo, s.Valor, perguntas, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create survey: %w", err)
	}
	s.ID = id
	return nil
}

// FindAll returns every survey in insertion order
func (r *pgSurveyRepository) FindAll(ctx context.Context) ([]model.Survey, error) {
	sql := `SELECT id, nome, tempo, valor, perguntas, created_at FROM surveys ORDER BY seq`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}
	defer rows.Close()

	surveys := make([]model.Survey, 0)
	for rows.Next() {
		var s model.Survey
		var perguntas []byte
		if err := rows.Scan(&s.ID, &s.Nome, &s.Tempo, &s.Valor, &perguntas, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan survey row: %w", err)
		}
		if err := json.Unmarshal(perguntas, &s.Perguntas); err != nil {
			return nil, fmt.Errorf("failed to decode questions of survey %s: %w", s.ID, err)
		}
		surveys = append(surveys, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating survey rows: %w", err)
	}
	return surveys, nil
}
