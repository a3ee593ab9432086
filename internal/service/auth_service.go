package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"family-finance/internal/dto"
	"family-finance/internal/models"
	"family-finance/internal/repository"
	"family-finance/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

// UserStore persists user accounts. Implemented by the postgres and memory
// user repositories.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedOut SessionEventKind = "signed_out"
)

// SessionEvent tells listeners that an identity signed in or out.
type SessionEvent struct {
	Kind     SessionEventKind
	Identity models.Identity
}

type SessionListener func(ctx context.Context, e SessionEvent)

type AuthService struct {
	users      UserStore
	jwtManager *auth.JWTManager
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.RWMutex
	listeners map[int]SessionListener
	nextID    int
}

func NewAuthService(users UserStore, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		logger:     logger.Named("auth"),
		now:        time.Now,
		listeners:  make(map[int]SessionListener),
	}
}

// Subscribe registers l for sign-in and sign-out events. The returned func
// removes it.
func (s *AuthService) Subscribe(l SessionListener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *AuthService) emit(ctx context.Context, e SessionEvent) {
	s.mu.RLock()
	listeners := make([]SessionListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, e)
	}
}

func (s *AuthService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = models.DefaultProfile(uuid.Nil, email).Name
	}

	now := s.now()
	user := &models.User{
		ID:          uuid.New(),
		DisplayName: displayName,
		Email:       email,
		Password:    hashedPassword,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID.String()))
	return s.startSession(ctx, user)
}

func (s *AuthService) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to load user", zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token is consumed, so concurrent calls with it succeed at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ConsumeRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// SignOut revokes the access token and, when given, the refresh token, then
// tells listeners the identity is gone.
func (s *AuthService) SignOut(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if access == nil {
		return ErrInvalidCredentials
	}
	s.jwtManager.Revoke(access)
	if refreshToken != "" {
		if claims, err := s.jwtManager.ValidateKind(refreshToken, auth.KindRefresh); err == nil && claims.UserID == access.UserID {
			s.jwtManager.Revoke(claims)
		}
	}

	id, err := identityFromClaims(access)
	if err != nil {
		return err
	}
	s.logger.Info("User signed out", zap.String("user_id", access.UserID))
	s.emit(ctx, SessionEvent{Kind: SessionSignedOut, Identity: id})
	return nil
}

// CurrentSession resolves an access token to the identity it belongs to.
func (s *AuthService) CurrentSession(token string) (models.Identity, error) {
	claims, err := s.jwtManager.ValidateKind(token, auth.KindAccess)
	if err != nil {
		return models.Identity{}, ErrInvalidCredentials
	}
	return identityFromClaims(claims)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, SessionEvent{
		Kind:     SessionSignedIn,
		Identity: models.Identity{UserID: user.ID, Email: user.Email, DisplayName: user.DisplayName},
	})
	return resp, nil
}

func (s *AuthService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID.String(), user.DisplayName, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		User: dto.UserResponse{
			ID:          user.ID.String(),
			DisplayName: user.DisplayName,
			Email:       user.Email,
		},
	}, nil
}

func identityFromClaims(c *auth.Claims) (models.Identity, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return models.Identity{}, ErrInvalidCredentials
	}
	return models.Identity{UserID: id, Email: c.Email, DisplayName: c.DisplayName}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
