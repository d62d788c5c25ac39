package model

import (
	"bytes"
	"encoding/json"
	"time"
)

const (
	QuestionTypeText     = "texto"
	QuestionTypeSingle   = "escolha_unica"
	QuestionTypeMultiple = "multipla_escolha"
)

// Survey is a reusable questionnaire definition
type Survey struct {
	ID        string     `json:"id"`
	Nome      string     `json:"nome"`
	Tempo     string     `json:"tempo"` // Estimated completion time, display only
	Valor     string     `json:"valor"` // Currency-formatted reward, e.g. "R$ 3,50"
	Perguntas []Question `json:"perguntas"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Question is a single survey question. Options are meaningful only for select types.
type Question struct {
	Texto  string   `json:"texto" binding:"required"`
	Tipo   string   `json:"tipo" binding:"omitempty,questiontype"`
	Opcoes []string `json:"opcoes,omitempty"`
}

// UnmarshalJSON accepts both the structured form and the legacy bare-string form,
// which decodes as a free-text question.
func (q *Question) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*q = Question{Texto: text, Tipo: QuestionTypeText}
		return nil
	}

	type plain Question
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*q = Question(p)
	return nil
}

// IsSelect reports whether the question offers options
func (q Question) IsSelect() bool {
	return q.Tipo == QuestionTypeSingle || q.Tipo == QuestionTypeMultiple
}

// Normalize fills the default type and drops options from free-text questions
func (q Question) Normalize() Question {
	if q.Tipo == "" {
		q.Tipo = QuestionTypeText
	}
	if !q.IsSelect() {
		q.Opcoes = nil
	}
	return q
}

// IsValidQuestionType reports whether t is one of the known question types
func IsValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeText, QuestionTypeSingle, QuestionTypeMultiple:
		return true
	}
	return false
}

// CreateSurveyRequest is used for creating a new survey
type CreateSurveyRequest struct {
	Nome      string     `json:"nome" binding:"required"`
	Tempo     string     `json:"tempo"`
	Valor     string     `json:"valor" binding:"required"`
	Perguntas []Question `json:"perguntas" binding:"dive"`
}

// CompleteSurveyRequest is the payload sent when a user finishes a survey
type CompleteSurveyRequest struct {
	SurveyID string `json:"surveyId"`
	Valor    string `json:"valor" binding:"required"`
}
