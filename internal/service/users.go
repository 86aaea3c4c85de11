package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Skotchmaster/skz_roster/internal/events"
	"github.com/Skotchmaster/skz_roster/internal/identity"
	"github.com/Skotchmaster/skz_roster/internal/models"
	"github.com/Skotchmaster/skz_roster/internal/repo"
	"github.com/Skotchmaster/skz_roster/internal/transport"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
)

type UserRepo interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

// UserService manages existing accounts. Ownership of the target id is
// enforced by the router; role changes are checked here.
type UserService struct {
	Repo   UserRepo
	Hasher PasswordHasher
	Events events.Publisher
}

func (s *UserService) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, internal(err)
	}
	out := make([]models.UserView, 0, len(users))
	for i := range users {
		out = append(out, users[i].View())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.UserView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

func (s *UserService) Update(ctx context.Context, id uint, req transport.UpdateUserRequest) (*models.UserView, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "user_id", id)

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := trimmed(req.Username); v != "" && v != user.Username {
		if err := s.taken(ctx, id, v, s.Repo.FindUserByUsername); err != nil {
			return nil, conflictOr(err, "Username already taken")
		}
		user.Username = v
	}
	if v := trimmed(req.Email); v != "" && v != user.Email {
		if err := validation.Validate(v, is.Email); err != nil {
			return nil, invalid("Invalid email format")
		}
		if err := s.taken(ctx, id, v, s.Repo.FindUserByEmail); err != nil {
			return nil, conflictOr(err, "Email already taken")
		}
		user.Email = v
	}
	if req.Password != nil && *req.Password != "" {
		pwHash, err := s.Hasher.HashPassword(*req.Password)
		if err != nil {
			l.Error("update_user_error", "status", 500, "reason", "cannot hash the password", "error", err)
			return nil, internal(err)
		}
		user.PasswordHash = pwHash
	}
	if v := trimmed(req.Role); v != "" {
		caller, _ := identity.FromContext(ctx)
		if caller.IsAdmin() {
			if !models.ValidRole(v) {
				return nil, invalid("Invalid role")
			}
			user.Role = v
		} else {
			l.Warn("update_user_role_ignored", "reason", "caller is not admin", "caller_id", caller.ID)
		}
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, conflict("Username or email already taken")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("User not found")
		}
		l.Error("update_user_error", "status", 500, "error", err)
		return nil, internal(err)
	}

	view := user.View()
	return &view, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "users.delete", "user_id", id)

	if caller, ok := identity.FromContext(ctx); ok && caller.ID == id {
		return forbidden("You cannot delete your own account")
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("User not found")
		}
		l.Error("delete_user_error", "status", 500, "error", err)
		return internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, id, events.New(events.UserDeleted, id, nil))
	l.Info("delete_user_success")
	return nil
}

func (s *UserService) find(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, internal(err)
	}
	return user, nil
}

var errTaken = errors.New("taken")

func (s *UserService) taken(ctx context.Context, self uint, v string, lookup func(context.Context, string) (*models.User, error)) error {
	other, err := lookup(ctx, v)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != self:
		return errTaken
	}
	return nil
}

func conflictOr(err error, msg string) *Error {
	if errors.Is(err, errTaken) {
		return conflict(msg)
	}
	return internal(err)
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
