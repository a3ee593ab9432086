package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
	ErrWrongKind    = errors.New("wrong token kind")
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type Claims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Kind        string `json:"kind"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HS256 tokens. Revoked token ids are kept
// until the token would have expired anyway.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	refreshDur    time.Duration
	now           func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewJWTManager(secretKey string, tokenDuration, refreshDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		refreshDur:    refreshDuration,
		now:           time.Now,
		revoked:       make(map[string]time.Time),
	}
}

func (m *JWTManager) GenerateToken(userID, displayName, email string) (string, error) {
	return m.sign(Claims{
		UserID:      userID,
		DisplayName: displayName,
		Email:       email,
		Kind:        KindAccess,
	}, m.tokenDuration)
}

func (m *JWTManager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(Claims{UserID: userID, Kind: KindRefresh}, m.refreshDur)
}

func (m *JWTManager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses the token and checks signature, expiry and revocation.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if m.IsRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// ValidateKind is ValidateToken restricted to one token kind.
func (m *JWTManager) ValidateKind(tokenStr, kind string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	return claims, nil
}

// ConsumeRefresh validates a refresh token and revokes it in the same step,
// so a token can be exchanged only once.
func (m *JWTManager) ConsumeRefresh(tokenStr string) (*Claims, error) {
	claims, err := m.ValidateKind(tokenStr, KindRefresh)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.revoked[claims.ID]; ok {
		return nil, ErrTokenRevoked
	}
	m.revokeLocked(claims)
	return claims, nil
}

// Revoke invalidates the token until its expiry.
func (m *JWTManager) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revokeLocked(claims)
}

func (m *JWTManager) revokeLocked(claims *Claims) {
	exp := m.now().Add(m.refreshDur)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	m.pruneLocked()
	m.revoked[claims.ID] = exp
}

func (m *JWTManager) IsRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

func (m *JWTManager) pruneLocked() {
	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
}

func (m *JWTManager) GetTokenDuration() time.Duration {
	return m.tokenDuration
}
