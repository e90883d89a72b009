package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/where2play/calendar-api/internal/models"
	appErrors "github.com/where2play/calendar-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, query string) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// UserService provides account lookups and profile management.
type UserService struct {
	repo      userRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, cache: cache, validator: validate, logger: logger}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// GetByID returns a user, served from cache when possible.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var cached models.User
	if hit, _ := s.cache.Get(ctx, userCacheKey(id), &cached); hit {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if err := s.cache.Set(ctx, userCacheKey(id), user, 0); err != nil {
		s.logger.Debug("user cache write skipped", zap.Error(err))
	}
	return user, nil
}

// Search returns users matching the query by name or email.
func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	users, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search users")
	}
	return users, nil
}

// Update applies partial profile changes to the given user.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name must not be empty")
		}
		user.Name = *req.Name
	}
	if req.PictureURL != nil {
		user.PictureURL = *req.PictureURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	if err := s.cache.Invalidate(ctx, userCacheKey(id)); err != nil {
		s.logger.Debug("user cache invalidation skipped", zap.Error(err))
	}
	return user, nil
}

// Delete removes the account. Owned events and attendee links are removed
// by the database cascade.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	if err := s.cache.Invalidate(ctx, userCacheKey(id)); err != nil {
		s.logger.Debug("user cache invalidation skipped", zap.Error(err))
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}
