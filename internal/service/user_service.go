package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkovac21/accountd/internal/domain"
	"github.com/mkovac21/accountd/internal/repository"
)

var (
	ErrNotFound     = errors.New("could not find any data relevant")
	ErrInvalidField = errors.New("invalid field to update")
	ErrNoAvatar     = errors.New("no avatar set")
)

// ImageTransformer normalizes raw upload bytes to the stored avatar
// encoding.
type ImageTransformer interface {
	Transform(raw []byte) ([]byte, error)
}

// updatableFields is the whole whitelist for partial profile updates.
// Anything else in the payload rejects the update without touching state.
var updatableFields = map[string]bool{
	"name": true,
	"age":  true,
	"jobs": true,
}

type UserService struct {
	userRepo    repository.UserRepository
	transformer ImageTransformer
}

func NewUserService(userRepo repository.UserRepository, transformer ImageTransformer) *UserService {
	return &UserService{
		userRepo:    userRepo,
		transformer: transformer,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Update applies a partial profile update. All keys must come from the
// whitelist; one bad key, or any invariant violation after applying, and
// nothing is persisted.
func (s *UserService) Update(ctx context.Context, user *domain.User, fields map[string]any) error {
	for key := range fields {
		if !updatableFields[key] {
			return ErrInvalidField
		}
	}

	updated := *user
	for key, value := range fields {
		switch key {
		case "name":
			v, ok := value.(string)
			if !ok {
				return ErrInvalidField
			}
			updated.Name = v
		case "age":
			// JSON numbers decode as float64
			v, ok := value.(float64)
			if !ok {
				return ErrInvalidField
			}
			updated.Age = int(v)
		case "jobs":
			v, ok := value.(string)
			if !ok {
				return ErrInvalidField
			}
			updated.Jobs = v
		}
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	*user = updated
	return s.userRepo.Update(ctx, user)
}

// Delete removes the account entirely. Every token it ever issued stops
// resolving with it.
func (s *UserService) Delete(ctx context.Context, user *domain.User) error {
	return s.userRepo.Delete(ctx, user.ID)
}

// SetAvatar runs the upload through the image transformer and stores the
// normalized bytes.
func (s *UserService) SetAvatar(ctx context.Context, user *domain.User, raw []byte) error {
	converted, err := s.transformer.Transform(raw)
	if err != nil {
		return err
	}

	user.Avatar = converted
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("saving avatar: %w", err)
	}
	return nil
}

func (s *UserService) ClearAvatar(ctx context.Context, user *domain.User) error {
	if len(user.Avatar) == 0 {
		return ErrNoAvatar
	}

	user.Avatar = nil
	return s.userRepo.Update(ctx, user)
}

// GetAvatar is public. A missing account and an account without an avatar
// are indistinguishable to the caller.
func (s *UserService) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || len(user.Avatar) == 0 {
		return nil, ErrNotFound
	}
	return user.Avatar, nil
}
