package service

import (
	"context"
	"errors"
	"time"

	"opinai/internal/model"
	"opinai/internal/repository"
	"opinai/internal/utils"
)

const testSecret = "test-secret"

var errStoreDown = errors.New("store down")

func newTestJWT() *utils.JWTUtil {
	return utils.NewJWTUtil(testSecret, 7*24*time.Hour)
}

// failingUserRepo fails every call with errStoreDown
type failingUserRepo struct{}

func (failingUserRepo) Create(ctx context.Context, user *model.User) error { return errStoreDown }
func (failingUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, errStoreDown
}
func (failingUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, errStoreDown
}
func (failingUserRepo) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	return nil, errStoreDown
}
func (failingUserRepo) IncrementPoints(ctx context.Context, id string, delta float64) (float64, error) {
	return 0, errStoreDown
}

type failingSurveyRepo struct{}

func (failingSurveyRepo) Create(ctx context.Context, s *model.Survey) error { return errStoreDown }
func (failingSurveyRepo) FindAll(ctx context.Context) ([]model.Survey, error) {
	return nil, errStoreDown
}

func registerUser(svc AuthService, email string, admin bool) (*model.User, string) {
	user, token, err := svc.Register(context.Background(), model.RegisterRequest{
		Nome:    "Teste",
		Email:   email,
		Senha:   "senha123",
		IsAdmin: admin,
	})
	if err != nil {
		panic(err)
	}
	return user, token
}

var _ repository.UserRepository = failingUserRepo{}
