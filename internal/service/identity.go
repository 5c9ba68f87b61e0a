package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrIdentityInvalid se devuelve cuando el token del proveedor no verifica.
var ErrIdentityInvalid = errors.New("identity token invalid")

// Identity es lo que el proveedor de identidad afirma sobre quien inicia sesion.
type Identity struct {
	Provider      string
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// IdentityVerifier intercambia un token del proveedor por una identidad verificada.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// ClerkVerifier valida session tokens de Clerk (RS256) con la clave publica de
// la instancia. email y name llegan por el template de claims de la sesion.
type ClerkVerifier struct {
	key     *rsa.PublicKey
	issuer  string
	parties []string
	leeway  time.Duration
}

type clerkClaims struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	EmailVerified   bool   `json:"email_verified"`
	AuthorizedParty string `json:"azp"`
	jwt.RegisteredClaims
}

// NewClerkVerifier parsea la clave PEM. parties vacio acepta cualquier azp.
func NewClerkVerifier(publicKeyPEM, issuer string, parties []string) (*ClerkVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse clerk public key: %w", err)
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("clerk issuer is required")
	}
	return &ClerkVerifier{key: key, issuer: issuer, parties: parties, leeway: 5 * time.Second}, nil
}

func (v *ClerkVerifier) Verify(_ context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrIdentityInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	var claims clerkClaims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrIdentityInvalid, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrIdentityInvalid
	}
	if len(v.parties) > 0 && !slices.Contains(v.parties, claims.AuthorizedParty) {
		return Identity{}, fmt.Errorf("%w: unexpected azp %q", ErrIdentityInvalid, claims.AuthorizedParty)
	}
	return Identity{
		Provider:      "clerk",
		Subject:       claims.Subject,
		Email:         normalizeEmail(claims.Email),
		Name:          strings.TrimSpace(claims.Name),
		EmailVerified: claims.EmailVerified,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
