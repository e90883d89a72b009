package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/where2play/calendar-api/internal/models"
	appErrors "github.com/where2play/calendar-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByProvider(ctx context.Context, provider models.AuthProvider, providerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// tokenVerifier validates a provider-issued token and returns the profile
// it belongs to.
type tokenVerifier interface {
	Verify(ctx context.Context, provider models.AuthProvider, token string) (*models.ProviderProfile, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService handles provider logins and token issuance.
type AuthService struct {
	repo      authUserRepository
	verifier  tokenVerifier
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, verifier tokenVerifier, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, verifier: verifier, validator: validate, logger: logger, config: config}
}

// Login authenticates against the requested provider and returns a signed
// access token. LOCAL logins check email and password; GOOGLE and FACEBOOK
// logins verify the provider token and create the account on first login.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	provider, ok := models.ParseAuthProvider(req.Provider)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedProvider, fmt.Sprintf("unsupported auth provider %q", req.Provider))
	}

	var user *models.User
	var err error
	switch provider {
	case models.AuthProviderLocal:
		user, err = s.loginLocal(ctx, req)
	default:
		user, err = s.loginWithProvider(ctx, provider, req.Token)
	}
	if err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("provider", string(provider)))

	return &models.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		IssuedAt:    time.Now().UTC(),
		User:        *user,
	}, nil
}

func (s *AuthService) loginLocal(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email and password are required for local login")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if user.PasswordHash == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	return user, nil
}

func (s *AuthService) loginWithProvider(ctx context.Context, provider models.AuthProvider, token string) (*models.User, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "token is required for provider login")
	}

	profile, err := s.verifier.Verify(ctx, provider, token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidCredentials.Code, appErrors.ErrInvalidCredentials.Status, "provider token rejected")
	}

	user, err := s.repo.FindByProvider(ctx, provider, profile.ProviderID)
	if err == nil {
		// keep the profile fresh on every login
		if user.Name != profile.Name || user.PictureURL != profile.PictureURL {
			user.Name = profile.Name
			user.PictureURL = profile.PictureURL
			if uerr := s.repo.Update(ctx, user); uerr != nil {
				s.logger.Warn("failed to refresh user profile", zap.Error(uerr))
			}
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	user = &models.User{
		Email:      profile.Email,
		Name:       profile.Name,
		PictureURL: profile.PictureURL,
		Provider:   provider,
		ProviderID: &profile.ProviderID,
		Role:       models.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("created user on first provider login",
		zap.String("user_id", user.ID),
		zap.String("provider", string(provider)))
	return user, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Provider: user.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
