package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"mindfolk/internal/domain"
)

type mockUserRepo struct {
	byID      map[string]domain.User
	createErr error
	seen      map[string]time.Time
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: make(map[string]domain.User), seen: make(map[string]time.Time)}
}

func (m *mockUserRepo) Create(_ context.Context, u domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByIdentity(_ context.Context, provider, subject string) (domain.User, error) {
	for _, u := range m.byID {
		if u.Provider == provider && u.Subject == subject {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) LinkIdentity(_ context.Context, id, provider, subject string) error {
	u, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Provider, u.Subject = provider, subject
	m.byID[id] = u
	return nil
}

func (m *mockUserRepo) MarkSeen(_ context.Context, id string, at time.Time) error {
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	m.seen[id] = at
	return nil
}

// staticVerifier acepta tokens de la forma registrada en ids.
type staticVerifier struct {
	ids map[string]Identity
}

func (v staticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	id, ok := v.ids[token]
	if !ok {
		return Identity{}, ErrIdentityInvalid
	}
	return id, nil
}

func newAccountFixture(ids map[string]Identity) (*AccountService, *mockUserRepo) {
	users := newMockUserRepo()
	sessions := NewSessionService("secret", time.Minute, time.Hour, NewMemoryRefreshStore())
	svc := NewAccountService(nil, users, staticVerifier{ids: ids}, sessions, NewRateLimiter(time.Minute, 2))
	return svc, users
}

func TestAccountService_SignInEnrollsWithRequestedRole(t *testing.T) {
	svc, users := newAccountFixture(map[string]Identity{
		"tok-ana":  {Provider: "clerk", Subject: "user_ana", Email: "Ana@Example.com", Name: "Ana", EmailVerified: true},
		"tok-beto": {Provider: "clerk", Subject: "user_beto", Email: "beto@example.com", EmailVerified: true},
	})
	ctx := context.Background()

	ana, tokens, err := svc.SignIn(ctx, "tok-ana", domain.RoleTherapist)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if ana.Role != domain.RoleTherapist || ana.Email != "ana@example.com" || ana.Subject != "user_ana" {
		t.Fatalf("unexpected user %+v", ana)
	}
	claims, err := svc.sessions.ParseAccess(tokens.AccessToken)
	if err != nil || claims.Role != string(domain.RoleTherapist) || claims.UserID != ana.ID {
		t.Fatalf("unexpected claims %+v err=%v", claims, err)
	}
	if _, ok := users.seen[ana.ID]; !ok {
		t.Fatalf("expected last seen recorded")
	}

	beto, _, err := svc.SignIn(ctx, "tok-beto", "")
	if err != nil {
		t.Fatalf("sign in default: %v", err)
	}
	if beto.Role != domain.RoleClient {
		t.Fatalf("expected default client role, got %s", beto.Role)
	}
}

func TestAccountService_SignInKeepsExistingRole(t *testing.T) {
	svc, users := newAccountFixture(map[string]Identity{
		"tok": {Provider: "clerk", Subject: "user_1", Email: "c@example.com", EmailVerified: true},
	})
	ctx := context.Background()
	first, _, err := svc.SignIn(ctx, "tok", domain.RoleClient)
	if err != nil {
		t.Fatalf("first sign in: %v", err)
	}
	again, tokens, err := svc.SignIn(ctx, "tok", domain.RoleTherapist)
	if err != nil {
		t.Fatalf("second sign in: %v", err)
	}
	if again.ID != first.ID || again.Role != domain.RoleClient {
		t.Fatalf("expected same client account, got %+v", again)
	}
	claims, _ := svc.sessions.ParseAccess(tokens.AccessToken)
	if claims.Role != string(domain.RoleClient) {
		t.Fatalf("expected client claim, got %s", claims.Role)
	}
	if len(users.byID) != 1 {
		t.Fatalf("expected one account, got %d", len(users.byID))
	}
}

func TestAccountService_SignInRejects(t *testing.T) {
	svc, users := newAccountFixture(map[string]Identity{
		"tok": {Provider: "clerk", Subject: "user_1", Email: "x@example.com", EmailVerified: true},
	})
	ctx := context.Background()
	if _, _, err := svc.SignIn(ctx, "forged", domain.RoleClient); !errors.Is(err, ErrIdentityInvalid) {
		t.Fatalf("expected ErrIdentityInvalid, got %v", err)
	}
	if _, _, err := svc.SignIn(ctx, "tok", domain.RoleAdmin); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected admin self-enroll rejected, got %v", err)
	}
	if len(users.byID) != 0 {
		t.Fatalf("expected no account created")
	}
}

func TestAccountService_SignInLinksVerifiedEmail(t *testing.T) {
	svc, users := newAccountFixture(map[string]Identity{
		"verified":   {Provider: "clerk", Subject: "user_new", Email: "legacy@example.com", EmailVerified: true},
		"unverified": {Provider: "clerk", Subject: "user_other", Email: "legacy@example.com"},
	})
	users.byID["legacy"] = domain.User{ID: "legacy", Email: "legacy@example.com", Role: domain.RoleTherapist}
	ctx := context.Background()

	if _, _, err := svc.SignIn(ctx, "unverified", domain.RoleClient); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected unverified email rejected, got %v", err)
	}

	linked, _, err := svc.SignIn(ctx, "verified", domain.RoleClient)
	if err != nil {
		t.Fatalf("verified sign in: %v", err)
	}
	if linked.ID != "legacy" || linked.Role != domain.RoleTherapist {
		t.Fatalf("expected legacy therapist linked, got %+v", linked)
	}
	if users.byID["legacy"].Subject != "user_new" {
		t.Fatalf("expected identity stored on legacy account")
	}
}

func TestAccountService_AdminLogin(t *testing.T) {
	svc, users := newAccountFixture(nil)
	ctx := context.Background()
	admin, err := svc.ProvisionAdmin(ctx, "Ops@Example.com", "Ops", "correct horse battery")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(users.byID[admin.ID].PasswordHash), []byte("correct horse battery")) != nil {
		t.Fatalf("expected bcrypt hash stored")
	}
	if _, err := svc.ProvisionAdmin(ctx, "ops@example.com", "", "another long password"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.ProvisionAdmin(ctx, "b@example.com", "", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	_, tokens, err := svc.AdminLogin(ctx, "ops@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, _ := svc.sessions.ParseAccess(tokens.AccessToken)
	if claims.Role != string(domain.RoleAdmin) {
		t.Fatalf("expected admin claim, got %s", claims.Role)
	}
	if _, _, err := svc.AdminLogin(ctx, "ops@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.AdminLogin(ctx, "ops@example.com", "wrong"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited after limit, got %v", err)
	}
}

func TestAccountService_AdminLoginRejectsNonAdmins(t *testing.T) {
	svc, users := newAccountFixture(nil)
	hash, _ := bcrypt.GenerateFromPassword([]byte("long enough password"), bcrypt.MinCost)
	users.byID["t1"] = domain.User{ID: "t1", Email: "t@example.com", Role: domain.RoleTherapist, PasswordHash: string(hash)}
	if _, _, err := svc.AdminLogin(context.Background(), "t@example.com", "long enough password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected therapist rejected on admin login, got %v", err)
	}
	if _, _, err := svc.AdminLogin(context.Background(), "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected unknown email rejected, got %v", err)
	}
}

func TestAccountService_RefreshPicksUpRoleChange(t *testing.T) {
	svc, users := newAccountFixture(map[string]Identity{
		"tok": {Provider: "clerk", Subject: "user_1", Email: "p@example.com", EmailVerified: true},
	})
	ctx := context.Background()
	user, tokens, err := svc.SignIn(ctx, "tok", domain.RoleClient)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	promoted := users.byID[user.ID]
	promoted.Role = domain.RoleTherapist
	users.byID[user.ID] = promoted

	next, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, _ := svc.sessions.ParseAccess(next.AccessToken)
	if claims.Role != string(domain.RoleTherapist) {
		t.Fatalf("expected refreshed role therapist, got %s", claims.Role)
	}
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected rotated refresh rejected, got %v", err)
	}

	if err := svc.SignOut(ctx, next.RefreshToken); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := svc.Refresh(ctx, next.RefreshToken); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected signed out refresh rejected, got %v", err)
	}
	if err := svc.SignOut(ctx, next.RefreshToken); err != nil {
		t.Fatalf("second sign out should be a no-op, got %v", err)
	}
}

func TestAccountService_Me(t *testing.T) {
	svc, _ := newAccountFixture(nil)
	if _, err := svc.Me(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
