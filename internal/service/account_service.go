package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mindfolk/internal/domain"
	"mindfolk/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("role must be client or therapist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many attempts")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must have at least 12 characters")
)

const minAdminPassword = 12

// AccountService resuelve quien es el usuario y con que rol entra a la app.
// Clientes y terapeutas llegan por el proveedor de identidad; los admins se
// provisionan por CLI y entran con password.
type AccountService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	identities IdentityVerifier
	sessions   *SessionService
	adminLimit RateLimiter
	now        func() time.Time
}

func NewAccountService(
	logger *zap.Logger,
	users repository.UserRepository,
	identities IdentityVerifier,
	sessions *SessionService,
	adminLimit RateLimiter,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adminLimit == nil {
		adminLimit = NewRateLimiter(15*time.Minute, 5)
	}
	return &AccountService{
		logger:     logger,
		users:      users,
		identities: identities,
		sessions:   sessions,
		adminLimit: adminLimit,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SignIn intercambia el token del proveedor por una sesion propia.
// requested solo se usa en el alta; una cuenta existente conserva su rol.
func (s *AccountService) SignIn(ctx context.Context, token string, requested domain.Role) (domain.User, Tokens, error) {
	if s.identities == nil {
		return domain.User{}, Tokens{}, ErrIdentityInvalid
	}
	ident, err := s.identities.Verify(ctx, token)
	if err != nil {
		return domain.User{}, Tokens{}, err
	}

	user, err := s.users.GetByIdentity(ctx, ident.Provider, ident.Subject)
	switch {
	case err == nil:
		if requested != "" && requested != user.Role {
			s.logger.Info("sign-in role ignored for existing account",
				zap.String("user_id", user.ID),
				zap.String("role", string(user.Role)),
				zap.String("requested", string(requested)))
		}
	case errors.Is(err, pgx.ErrNoRows):
		user, err = s.enroll(ctx, ident, requested)
		if err != nil {
			return domain.User{}, Tokens{}, err
		}
	default:
		return domain.User{}, Tokens{}, err
	}

	seen := s.now()
	if err := s.users.MarkSeen(ctx, user.ID, seen); err != nil {
		s.logger.Warn("mark seen failed", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastSeenAt = &seen
	}
	tokens, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return domain.User{}, Tokens{}, err
	}
	return user, tokens, nil
}

func (s *AccountService) enroll(ctx context.Context, ident Identity, requested domain.Role) (domain.User, error) {
	role := requested
	if role == "" {
		role = domain.RoleClient
	}
	if role != domain.RoleClient && role != domain.RoleTherapist {
		return domain.User{}, ErrInvalidRole
	}

	email := normalizeEmail(ident.Email)
	if email != "" {
		existing, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			// solo un email verificado puede reclamar una cuenta sin proveedor
			if !ident.EmailVerified || existing.Provider != "" {
				return domain.User{}, ErrEmailTaken
			}
			if err := s.users.LinkIdentity(ctx, existing.ID, ident.Provider, ident.Subject); err != nil {
				return domain.User{}, err
			}
			existing.Provider, existing.Subject = ident.Provider, ident.Subject
			s.logger.Info("identity linked", zap.String("user_id", existing.ID), zap.String("provider", ident.Provider))
			return existing, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
	}

	user := domain.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: strings.TrimSpace(ident.Name),
		Role:        role,
		Provider:    ident.Provider,
		Subject:     ident.Subject,
		CreatedAt:   s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// AdminLogin valida email y password de una cuenta admin.
func (s *AccountService) AdminLogin(ctx context.Context, email, password string) (domain.User, Tokens, error) {
	email = normalizeEmail(email)
	if !s.adminLimit.Allow(ctx, email) {
		return domain.User{}, Tokens{}, ErrRateLimited
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, Tokens{}, ErrInvalidCredentials
		}
		return domain.User{}, Tokens{}, err
	}
	if user.Role != domain.RoleAdmin || user.PasswordHash == "" {
		return domain.User{}, Tokens{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, Tokens{}, ErrInvalidCredentials
	}
	tokens, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return domain.User{}, Tokens{}, err
	}
	return user, tokens, nil
}

// ProvisionAdmin crea una cuenta admin con password.
func (s *AccountService) ProvisionAdmin(ctx context.Context, email, name, password string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidCredentials
	}
	if len(password) < minAdminPassword {
		return domain.User{}, ErrWeakPassword
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(name),
		Role:         domain.RoleAdmin,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Refresh rota el par de tokens. El rol se relee de la base.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	userID, err := s.sessions.ConsumeRefresh(ctx, refreshToken)
	if err != nil {
		return Tokens{}, err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Tokens{}, ErrSessionInvalid
		}
		return Tokens{}, err
	}
	return s.sessions.Issue(ctx, user)
}

// SignOut invalida el refresh. Un token ya usado no es error.
func (s *AccountService) SignOut(ctx context.Context, refreshToken string) error {
	if _, err := s.sessions.ConsumeRefresh(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionInvalid) && !errors.Is(err, ErrSessionExpired) {
		return err
	}
	return nil
}

func (s *AccountService) Me(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
