package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mindfolk/internal/domain"
)

func TestSessionService_IssueAndParse(t *testing.T) {
	svc := NewSessionService("secret", time.Minute, time.Hour, nil)
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleClient, domain.RoleTherapist, domain.RoleAdmin} {
		tokens, err := svc.Issue(ctx, domain.User{ID: "u-" + string(role), Role: role})
		if err != nil {
			t.Fatalf("issue %s: %v", role, err)
		}
		claims, err := svc.ParseAccess(tokens.AccessToken)
		if err != nil {
			t.Fatalf("parse %s: %v", role, err)
		}
		if claims.Role != string(role) || claims.UserID != "u-"+string(role) {
			t.Fatalf("unexpected claims %+v", claims)
		}
		if _, err := svc.ParseAccess(tokens.RefreshToken); !errors.Is(err, ErrSessionInvalid) {
			t.Fatalf("refresh token must not pass as access, got %v", err)
		}
	}
}

func TestSessionService_IssueRejectsUnknownRole(t *testing.T) {
	svc := NewSessionService("secret", time.Minute, time.Hour, nil)
	if _, err := svc.Issue(context.Background(), domain.User{ID: "u1", Role: "superuser"}); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestSessionService_ParseRejectsForgedRole(t *testing.T) {
	svc := NewSessionService("secret", time.Minute, time.Hour, nil)
	now := time.Now()
	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1", Role: "root", Kind: kindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: sessionIssuer, Subject: "u1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	if _, err := svc.ParseAccess(forged); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected unknown role rejected, got %v", err)
	}

	other := NewSessionService("other", time.Minute, time.Hour, nil)
	tokens, _ := other.Issue(context.Background(), domain.User{ID: "u1", Role: domain.RoleAdmin})
	if _, err := svc.ParseAccess(tokens.AccessToken); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected foreign signature rejected, got %v", err)
	}
}

func TestSessionService_Expired(t *testing.T) {
	svc := NewSessionService("secret", time.Minute, time.Hour, nil)
	svc.accessTTL = -time.Minute
	tokens, err := svc.Issue(context.Background(), domain.User{ID: "u1", Role: domain.RoleClient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseAccess(tokens.AccessToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionService_RefreshIsSingleUse(t *testing.T) {
	svc := NewSessionService("secret", time.Minute, time.Hour, NewMemoryRefreshStore())
	ctx := context.Background()
	tokens, _ := svc.Issue(ctx, domain.User{ID: "u1", Role: domain.RoleTherapist})

	owner, err := svc.ConsumeRefresh(ctx, tokens.RefreshToken)
	if err != nil || owner != "u1" {
		t.Fatalf("consume: %q %v", owner, err)
	}
	if _, err := svc.ConsumeRefresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected reused refresh rejected, got %v", err)
	}
	if _, err := svc.ConsumeRefresh(ctx, tokens.AccessToken); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected access token rejected as refresh, got %v", err)
	}
}
