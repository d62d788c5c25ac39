package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opinai/internal/model"
	"opinai/internal/repository"
)

// SurveyService defines operations for survey definitions
type SurveyService interface {
	ListSurveys(ctx context.Context) ([]model.Survey, error)
	CreateSurvey(ctx context.Context, req model.CreateSurveyRequest) (*model.Survey, error)
}

type surveyService struct {
	repo repository.SurveyRepository
}

// NewSurveyService creates a new SurveyService
func NewSurveyService(repo repository.SurveyRepository) SurveyService {
	return &surveyService{repo: repo}
}

func (s *surveyService) ListSurveys(ctx context.Context) ([]model.Survey, error) {
	surveys, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys from repo: %w", err)
	}
	if surveys == nil {
		surveys = []model.Survey{}
	}
	return surveys, nil
}

// CreateSurvey stores a new survey keeping the submitted question order
func (s *surveyService) CreateSurvey(ctx context.Context, req model.CreateSurveyRequest) (*model.Survey, error) {
	perguntas := make([]model.Question, 0, len(req.Perguntas))
	for _, q := range req.Perguntas {
		perguntas = append(perguntas, q.Normalize())
	}

	survey := &model.Survey{
		Nome:      strings.TrimSpace(req.Nome),
		Tempo:     req.Tempo,
		Valor:     req.Valor,
		Perguntas: perguntas,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, survey); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return survey, nil
}
