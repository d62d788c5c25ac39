package repository

import (
	"context"
	"sync"

	"opinai/internal/model"

	"github.com/google/uuid"
)

// MemoryStore keeps users and surveys in process memory. It backs STORE_URI=memory://
// and the handler tests. All methods are safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*model.User
	byEmail map[string]string // email -> id
	surveys []model.Survey
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

// Users returns the UserRepository view of the store
func (m *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{m}
}

// Surveys returns the SurveyRepository view of the store
func (m *MemoryStore) Surveys() SurveyRepository {
	return &memorySurveyRepository{m}
}

type memoryUserRepository struct {
	*MemoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateKey
	}
	user.ID = uuid.NewString()
	stored := *user
	r.users[user.ID] = &stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	user := *r.users[id]
	return &user, nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user := *stored
	return &user, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Email != nil && *upd.Email != stored.Email {
		if _, taken := r.byEmail[*upd.Email]; taken {
			return nil, ErrDuplicateKey
		}
		delete(r.byEmail, stored.Email)
		r.byEmail[*upd.Email] = id
		stored.Email = *upd.Email
	}
	if upd.Nome != nil {
		stored.Nome = *upd.Nome
	}
	if upd.PasswordHash != nil {
		stored.PasswordHash = *upd.PasswordHash
	}
	if upd.Telefone != nil {
		stored.Telefone = *upd.Telefone
	}
	if upd.CPF != nil {
		stored.CPF = *upd.CPF
	}
	if upd.Foto != nil {
		stored.Foto = *upd.Foto
	}
	user := *stored
	return &user, nil
}

func (r *memoryUserRepository) IncrementPoints(ctx context.Context, id string, delta float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return 0, ErrNotFound
	}
	stored.Pontos += delta
	return stored.Pontos, nil
}

type memorySurveyRepository struct {
	*MemoryStore
}

func (r *memorySurveyRepository) Create(ctx context.Context, s *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.NewString()
	r.surveys = append(r.surveys, cloneSurvey(*s))
	return nil
}

func (r *memorySurveyRepository) FindAll(ctx context.Context) ([]model.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	surveys := make([]model.Survey, len(r.surveys))
	for i, s := range r.surveys {
		surveys[i] = cloneSurvey(s)
	}
	return surveys, nil
}

// cloneSurvey copies the question and option slices so callers never share them with the store
func cloneSurvey(s model.Survey) model.Survey {
	perguntas := make([]model.Question, len(s.Perguntas))
	for i, q := range s.Perguntas {
		if q.Opcoes != nil {
			q.Opcoes = append([]string(nil), q.Opcoes...)
		}
		perguntas[i] = q
	}
	s.Perguntas = perguntas
	return s
}
