package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/resumekit/cv-service/internal/auth"
	"github.com/resumekit/cv-service/internal/config"
	"github.com/resumekit/cv-service/internal/domain"
	"github.com/resumekit/cv-service/internal/events"
	"github.com/resumekit/cv-service/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

// AuthService verifies credentials and mints session tokens.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	dummyHash  string
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators of the auth service. Clock is
// optional and only set by tests.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Session is a freshly minted session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service. The dummy hash used for unknown emails
// is computed here with the configured cost.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	dummy, err := auth.NewDummyHash(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, auth.SessionTTL, deps.Clock),
		bcryptCost: cfg.Auth.BcryptCost,
		dummyHash:  dummy,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}, nil
}

// Register creates a new account. Emails are compared exactly as stored.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// lost a race against a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventAccountRegistered, account.ID, "", nil))
	return account, nil
}

// Login authenticates an account. Unknown email and wrong password return
// the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, *Session, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = auth.ComparePassword(s.dummyHash, password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventSessionStarted, account.ID, "", nil))
	return account, &Session{Token: token, ExpiresAt: exp}, nil
}

// Account loads the public profile of the caller.
func (s *AuthService) Account(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return account, err
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// publish delivers an event if a dispatcher is wired. Subscribers are
// side channels; their failures are logged and never fail the request.
func publish(ctx context.Context, d events.Dispatcher, logger *zap.Logger, e events.Event) {
	if d == nil {
		return
	}
	if err := d.Publish(ctx, e); err != nil {
		logger.Warn("event publish failed",
			zap.String("event_type", string(e.Type)),
			zap.String("event_id", e.ID),
			zap.Error(err),
		)
	}
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
