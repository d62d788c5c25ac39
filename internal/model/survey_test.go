package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_UnmarshalLegacyString(t *testing.T) {
	var req CreateSurveyRequest
	err := json.Unmarshal([]byte(`{"nome":"Hábitos","valor":"R$ 2,00","perguntas":["Qual sua idade?","Onde mora?"]}`), &req)
	require.NoError(t, err)

	require.Len(t, req.Perguntas, 2)
	assert.Equal(t, Question{Texto: "Qual sua idade?", Tipo: QuestionTypeText}, req.Perguntas[0])
	assert.Equal(t, "Onde mora?", req.Perguntas[1].Texto)
}

func TestQuestion_UnmarshalStructured(t *testing.T) {
	var q Question
	err := json.Unmarshal([]byte(`{"texto":"Cor favorita","tipo":"escolha_unica","opcoes":["azul","verde","roxo"]}`), &q)
	require.NoError(t, err)

	assert.Equal(t, "Cor favorita", q.Texto)
	assert.Equal(t, QuestionTypeSingle, q.Tipo)
	assert.Equal(t, []string{"azul", "verde", "roxo"}, q.Opcoes)
	assert.True(t, q.IsSelect())
}

func TestQuestion_UnmarshalMixed(t *testing.T) {
	var qs []Question
	err := json.Unmarshal([]byte(`["Comentários", {"texto":"Marcas","tipo":"multipla_escolha","opcoes":["A","B"]}]`), &qs)
	require.NoError(t, err)

	require.Len(t, qs, 2)
	assert.Equal(t, QuestionTypeText, qs[0].Tipo)
	assert.Equal(t, QuestionTypeMultiple, qs[1].Tipo)
}

func TestQuestion_Normalize(t *testing.T) {
	q := Question{Texto: "Livre", Opcoes: []string{"ignored"}}.Normalize()
	assert.Equal(t, QuestionTypeText, q.Tipo)
	assert.Nil(t, q.Opcoes)

	sel := Question{Texto: "Escolha", Tipo: QuestionTypeMultiple, Opcoes: []string{"x", "y"}}.Normalize()
	assert.Equal(t, []string{"x", "y"}, sel.Opcoes)

	// Select questions without options are accepted as-is
	empty := Question{Texto: "Vazia", Tipo: QuestionTypeSingle}.Normalize()
	assert.Empty(t, empty.Opcoes)
	assert.Equal(t, QuestionTypeSingle, empty.Tipo)
}

func TestIsValidQuestionType(t *testing.T) {
	assert.True(t, IsValidQuestionType(QuestionTypeText))
	assert.True(t, IsValidQuestionType(QuestionTypeSingle))
	assert.True(t, IsValidQuestionType(QuestionTypeMultiple))
	assert.False(t, IsValidQuestionType("dropdown"))
	assert.False(t, IsValidQuestionType(""))
}

func TestUserUpdate_IsEmpty(t *testing.T) {
	assert.True(t, UserUpdate{}.IsEmpty())
	nome := "Ana"
	assert.False(t, UserUpdate{Nome: &nome}.IsEmpty())
}
