package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mindfolk/internal/domain"
)

const (
	sessionIssuer = "mindfolk"
	kindAccess    = "access"
	kindRefresh   = "refresh"
)

var (
	ErrSessionInvalid = errors.New("session token invalid")
	ErrSessionExpired = errors.New("session token expired")
)

// Claims viajan en los tokens propios de MindFolk. El rol se fija al emitir:
// un cambio de rol se ve en el siguiente refresh.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// Tokens es el par entregado al cliente tras iniciar sesion o refrescar.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SessionService firma y valida los tokens HS256 de la API.
type SessionService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	refresh    RefreshStore
}

func NewSessionService(secret string, accessTTL, refreshTTL time.Duration, refresh RefreshStore) *SessionService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	if refresh == nil {
		refresh = NewMemoryRefreshStore()
	}
	return &SessionService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		refresh:    refresh,
	}
}

// Issue emite un par nuevo y registra el jti del refresh.
func (s *SessionService) Issue(ctx context.Context, user domain.User) (Tokens, error) {
	if len(s.secret) == 0 || !user.Role.Valid() || user.ID == "" {
		return Tokens{}, ErrSessionInvalid
	}
	now := time.Now().UTC()
	access, err := s.sign(user, kindAccess, "", now, s.accessTTL)
	if err != nil {
		return Tokens{}, err
	}
	jti := uuid.NewString()
	refresh, err := s.sign(user, kindRefresh, jti, now, s.refreshTTL)
	if err != nil {
		return Tokens{}, err
	}
	if err := s.refresh.Save(ctx, jti, user.ID, s.refreshTTL); err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(s.accessTTL.Seconds())}, nil
}

// ParseAccess valida un access token y devuelve sus claims.
func (s *SessionService) ParseAccess(token string) (Claims, error) {
	return s.parse(token, kindAccess)
}

// ConsumeRefresh valida el refresh y lo invalida. Devuelve el user id dueno.
func (s *SessionService) ConsumeRefresh(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token, kindRefresh)
	if err != nil {
		return "", err
	}
	owner, err := s.refresh.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrRefreshUnknown) {
			return "", ErrSessionInvalid
		}
		return "", err
	}
	if owner != claims.UserID {
		return "", ErrSessionInvalid
	}
	return owner, nil
}

func (s *SessionService) sign(user domain.User, kind, jti string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionService) parse(token, kind string) (Claims, error) {
	if len(s.secret) == 0 || token == "" {
		return Claims{}, ErrSessionInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	var claims Claims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrSessionExpired
		}
		return Claims{}, ErrSessionInvalid
	}
	switch {
	case claims.Kind != kind,
		claims.UserID == "" || claims.Subject != claims.UserID,
		!domain.Role(claims.Role).Valid(),
		kind == kindRefresh && claims.ID == "":
		return Claims{}, ErrSessionInvalid
	}
	return claims, nil
}
