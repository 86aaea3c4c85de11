package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Skotchmaster/skz_roster/internal/events"
	"github.com/Skotchmaster/skz_roster/internal/identity"
	"github.com/Skotchmaster/skz_roster/internal/models"
	"github.com/Skotchmaster/skz_roster/internal/repo"
	"github.com/Skotchmaster/skz_roster/internal/transport"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
	"github.com/Skotchmaster/skz_roster/pkg/tokens"
)

type AccountRepo interface {
	CreateAccount(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
}

type TokenCodec interface {
	Issue(kind tokens.Kind, sub tokens.Subject) (string, time.Time, error)
	Verify(token string, kind tokens.Kind) (*tokens.Claims, error)
}

type AccountService struct {
	Repo   AccountRepo
	Hasher PasswordHasher
	Tokens TokenCodec
	Events events.Publisher
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         models.UserView
}

type RefreshResult struct {
	AccessToken string
	AccessExp   time.Time
}

func (s *AccountService) Register(ctx context.Context, req transport.RegisterRequest) (*models.UserView, error) {
	req.Username = strings.TrimSpace(req.Username)
	l := logging.FromContext(ctx).With("svc", "account.register", "username", req.Username)

	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return nil, invalid("Username, password, and email are required")
	}
	if err := validation.Validate(req.Email, is.Email); err != nil {
		return nil, invalid("Invalid email format")
	}

	if err := s.ensureFree(ctx, req.Username, req.Email, "already exists"); err != nil {
		return nil, err
	}

	pwHash, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, internal(err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateAccount(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// lost a race with a concurrent registration
			if err := s.ensureFree(ctx, req.Username, req.Email, "already exists"); err != nil {
				return nil, err
			}
			return nil, conflict("Username or email already exists")
		}
		l.Error("register_error", "status", 500, "reason", "cannot create account", "error", err)
		return nil, internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, events.New(events.UserRegistered, user.ID, map[string]string{
		"username": user.Username,
		"role":     user.Role,
	}))

	l.Info("register_success", "user_id", user.ID, "role", user.Role)
	view := user.View()
	return &view, nil
}

// ensureFree checks username before email so the username message wins when
// both collide.
func (s *AccountService) ensureFree(ctx context.Context, username, email, suffix string) error {
	if _, err := s.Repo.FindUserByUsername(ctx, username); err == nil {
		return conflict("Username " + suffix)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return internal(err)
	}
	if _, err := s.Repo.FindUserByEmail(ctx, email); err == nil {
		return conflict("Email " + suffix)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return internal(err)
	}
	return nil
}

func (s *AccountService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	l := logging.FromContext(ctx).With("svc", "account.login", "username", req.Username)

	if req.Username == "" || req.Password == "" {
		return nil, invalid("Username and password are required")
	}

	user, err := s.Repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, unauthenticated("Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, internal(err)
	}
	if !s.Hasher.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, unauthenticated("Invalid credentials")
	}

	sub := subjectOf(user)
	access, accessExp, err := s.Tokens.Issue(tokens.KindAccess, sub)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue access token", "error", err)
		return nil, internal(err)
	}
	refresh, refreshExp, err := s.Tokens.Issue(tokens.KindRefresh, sub)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue refresh token", "error", err)
		return nil, internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, events.New(events.UserLoggedIn, user.ID, nil))

	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user.View(),
	}, nil
}

// Refresh issues a new access token; the refresh token is not rotated.
// Expired and malformed refresh tokens are reported the same way.
func (s *AccountService) Refresh(ctx context.Context, req transport.RefreshRequest) (*RefreshResult, error) {
	l := logging.FromContext(ctx).With("svc", "account.refresh")

	if req.RefreshToken == "" {
		return nil, invalid("Refresh token is required")
	}

	claims, err := s.Tokens.Verify(req.RefreshToken, tokens.KindRefresh)
	if err != nil {
		if errors.Is(err, tokens.ErrMissingSecret) {
			l.Error("refresh_failed", "status", 500, "error", err)
			return nil, internal(err)
		}
		l.Warn("refresh_failed", "status", 403, "reason", "invalid refresh token", "error", err)
		return nil, forbidden("Invalid or expired refresh token")
	}

	user, err := s.Repo.FindUserByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 403, "reason", "account no longer exists", "user_id", claims.ID)
			return nil, forbidden("User not found")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, internal(err)
	}

	access, exp, err := s.Tokens.Issue(tokens.KindAccess, subjectOf(user))
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot issue access token", "error", err)
		return nil, internal(err)
	}
	return &RefreshResult{AccessToken: access, AccessExp: exp}, nil
}

func (s *AccountService) Me(ctx context.Context) (*models.UserView, error) {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return nil, unauthenticated("Not authenticated")
	}
	user, err := s.Repo.FindUserByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, internal(err)
	}
	view := user.View()
	return &view, nil
}

func subjectOf(u *models.User) tokens.Subject {
	return tokens.Subject{ID: u.ID, Username: u.Username, Role: u.Role}
}

func publish(ctx context.Context, p events.Publisher, topic string, key uint, ev events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, strconv.FormatUint(uint64(key), 10), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", topic, "event", ev.Type, "error", err)
	}
}
