package service

import (
	"context"
	"errors"
	"fmt"

	"opinai/internal/model"
	"opinai/internal/repository"
	"opinai/internal/storage"
	"opinai/internal/utils"
)

var (
	ErrInvalidPhoto      = errors.New("invalid photo. only jpeg, png and webp data URLs are allowed")
	ErrPhotoSizeExceeded = errors.New("photo size exceeds limit")
)

const MaxPhotoSize = 5 * 1024 * 1024 // 5MB decoded

// UserService provides profile operations for the authenticated user
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, req model.UpdateUserRequest) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	photos   storage.PhotoStore
}

// NewUserService creates a new UserService. photos may be nil, in which case photo
// references are stored exactly as sent.
func NewUserService(userRepo repository.UserRepository, photos storage.PhotoStore) UserService {
	return &userService{userRepo: userRepo, photos: photos}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// UpdateProfile changes any profile field except identity, admin flag and points
func (s *userService) UpdateProfile(ctx context.Context, userID string, req model.UpdateUserRequest) (*model.User, error) {
	upd := model.UserUpdate{
		Nome:     req.Nome,
		Telefone: req.Telefone,
		CPF:      req.CPF,
		Foto:     req.Foto,
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		upd.Email = &email
	}
	if req.Senha != nil {
		hashed, err := utils.HashPassword(*req.Senha)
		if err != nil {
			if errors.Is(err, utils.ErrPasswordTooLong) {
				return nil, ErrPasswordTooLong
			}
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		upd.PasswordHash = &hashed
	}
	if req.Foto != nil && s.photos != nil && storage.IsDataURL(*req.Foto) {
		ref, err := s.storePhoto(ctx, userID, *req.Foto)
		if err != nil {
			return nil, err
		}
		upd.Foto = &ref
	}

	user, err := s.userRepo.Update(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUnauthorized
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return user, nil
}

func (s *userService) storePhoto(ctx context.Context, userID, dataURL string) (string, error) {
	data, contentType, err := storage.ParseDataURL(dataURL)
	if err != nil || !storage.IsSupportedImage(contentType) {
		return "", ErrInvalidPhoto
	}
	if len(data) > MaxPhotoSize {
		return "", ErrPhotoSizeExceeded
	}

	ref, err := s.photos.Put(ctx, userID, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return ref, nil
}
