package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/where2play/calendar-api/internal/models"
	appErrors "github.com/where2play/calendar-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail    *models.User
	userByProvider *models.User
	created        *models.User
	updated        *models.User
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByProvider(ctx context.Context, provider models.AuthProvider, providerID string) (*models.User, error) {
	if m.userByProvider == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByProvider, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "generated-id"
	m.created = user
	return nil
}

func (m *mockAuthRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = user
	return nil
}

type mockVerifier struct {
	profile *models.ProviderProfile
	err     error
}

func (m *mockVerifier) Verify(ctx context.Context, provider models.AuthProvider, token string) (*models.ProviderProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func newAuthService(repo *mockAuthRepo, verifier *mockVerifier) *AuthService {
	return NewAuthService(repo, verifier, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "secret",
		TokenExpiry: time.Hour,
		Issuer:      "calendar-api",
	})
}

func TestAuthServiceLocalLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	hashStr := string(hash)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "u1", Email: "user@example.com", Provider: models.AuthProviderLocal, PasswordHash: &hashStr, Role: models.RoleUser}}
	svc := newAuthService(repo, &mockVerifier{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Provider: "LOCAL", Email: "user@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, "u1", res.User.ID)
}

func TestAuthServiceLocalLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	hashStr := string(hash)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "u1", Email: "user@example.com", PasswordHash: &hashStr}}
	svc := newAuthService(repo, &mockVerifier{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Provider: "LOCAL", Email: "user@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceUnsupportedProvider(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, &mockVerifier{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Provider: "MYSPACE", Token: "tok"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedProvider.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceProviderLoginCreatesUser(t *testing.T) {
	repo := &mockAuthRepo{}
	verifier := &mockVerifier{profile: &models.ProviderProfile{
		Email:      "new@example.com",
		Name:       "New User",
		PictureURL: "https://pics.example.com/1",
		ProviderID: "google-77",
	}}
	svc := newAuthService(repo, verifier)

	res, err := svc.Login(context.Background(), models.LoginRequest{Provider: "GOOGLE", Token: "valid-token"})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "new@example.com", repo.created.Email)
	assert.Equal(t, models.AuthProviderGoogle, repo.created.Provider)
	assert.Equal(t, models.RoleUser, repo.created.Role)
	assert.Equal(t, "generated-id", res.User.ID)
}

func TestAuthServiceProviderLoginExistingUserRefreshesProfile(t *testing.T) {
	providerID := "google-77"
	repo := &mockAuthRepo{userByProvider: &models.User{ID: "u2", Email: "old@example.com", Name: "Old Name", Provider: models.AuthProviderGoogle, ProviderID: &providerID}}
	verifier := &mockVerifier{profile: &models.ProviderProfile{Email: "old@example.com", Name: "Fresh Name", ProviderID: providerID}}
	svc := newAuthService(repo, verifier)

	res, err := svc.Login(context.Background(), models.LoginRequest{Provider: "GOOGLE", Token: "valid-token"})
	require.NoError(t, err)
	assert.Nil(t, repo.created)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "Fresh Name", res.User.Name)
}

func TestAuthServiceProviderTokenRejected(t *testing.T) {
	verifier := &mockVerifier{err: errors.New("token expired")}
	svc := newAuthService(&mockAuthRepo{}, verifier)

	_, err := svc.Login(context.Background(), models.LoginRequest{Provider: "GOOGLE", Token: "bad"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, &mockVerifier{})
	user := &models.User{ID: "u1", Email: "user@example.com", Name: "User", Provider: models.AuthProviderGoogle}
	token, _, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Subject)
}

func TestAuthServiceValidateTokenBadSignature(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, &mockVerifier{})
	other := NewAuthService(&mockAuthRepo{}, &mockVerifier{}, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "other-secret", TokenExpiry: time.Hour})
	token, _, err := other.generateAccessToken(&models.User{ID: "u1", Email: "user@example.com"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
