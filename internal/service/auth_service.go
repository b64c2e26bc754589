package service

import (
	"context"
	"fmt"
	"time"

	"blended-settlement/internal/core/domain"
	"blended-settlement/internal/core/ports"
	"blended-settlement/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	clientRepo ports.APIClientRepository
	hashSvc    ports.HashService
	tokenSvc   ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	clientRepo ports.APIClientRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		clientRepo: clientRepo,
		hashSvc:    hashSvc,
		tokenSvc:   tokenSvc,
	}
}

// Register creates a new API client account.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.APIClient, error) {
	existing, err := s.clientRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	client := &domain.APIClient{
		ID:           uuid.New(),
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Status:       domain.APIClientStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create api client: %w", err))
	}

	return client, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	client, err := s.clientRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find api client: %w", err))
	}
	if client == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, client.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !client.IsActive() {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(client.ID)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
