package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/where2play/calendar-api/internal/models"
	appErrors "github.com/where2play/calendar-api/pkg/errors"
)

type fakeUserRepo struct {
	users   map[string]*models.User
	deleted []string
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) Search(ctx context.Context, query string) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if strings.Contains(strings.ToLower(user.Email), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(user.Name), strings.ToLower(query)) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newUserServiceFixture() (*fakeUserRepo, *UserService) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "alice@example.com", Name: "Alice"},
	}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())
	return repo, svc
}

func TestUserServiceGetByID(t *testing.T) {
	_, svc := newUserServiceFixture()

	user, err := svc.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateMergesFields(t *testing.T) {
	repo, svc := newUserServiceFixture()

	name := "Alice B"
	user, err := svc.Update(context.Background(), "u1", models.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", user.Name)
	assert.Equal(t, "alice@example.com", repo.users["u1"].Email)
}

func TestUserServiceUpdateRejectsEmptyName(t *testing.T) {
	_, svc := newUserServiceFixture()

	empty := ""
	_, err := svc.Update(context.Background(), "u1", models.UpdateUserRequest{Name: &empty})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceDelete(t *testing.T) {
	repo, svc := newUserServiceFixture()

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, repo.deleted)

	err := svc.Delete(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceSearch(t *testing.T) {
	_, svc := newUserServiceFixture()

	users, err := svc.Search(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
