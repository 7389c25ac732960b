package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avdoshkin/blog_platform/internal/events"
	"github.com/avdoshkin/blog_platform/internal/hash"
	"github.com/avdoshkin/blog_platform/internal/logging"
	"github.com/avdoshkin/blog_platform/internal/models"
	"github.com/avdoshkin/blog_platform/internal/repo"
	"github.com/avdoshkin/blog_platform/internal/tokens"
)

const minPasswordLen = 6

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Service
	Producer *events.Producer
}

type AuthResult struct {
	User  *models.User
	Token string
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name is required")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email is required")
	}
	if password == "" {
		missing = append(missing, "password is required")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        repo.NormalizeEmail(email),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("signup_failed", "reason", "email taken")
			return nil, ErrConflict
		}
		l.Error("signup_failed", "error", err)
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID.String(), user.Name, user.Email, user.Role)
	if err != nil {
		l.Error("signup_failed", "reason", "cannot issue token", "error", err)
		return nil, err
	}

	event := map[string]interface{}{
		"type":    "user_registered",
		"user_id": user.ID.String(),
		"email":   user.Email,
	}
	if err := s.Producer.PublishEvent(ctx, events.TopicUserEvents, user.ID.String(), event); err != nil {
		l.Error("event_publish_failed", "topic", events.TopicUserEvents, "error", err)
	}

	l.Info("signup_successful", "user_id", user.ID.String())
	return &AuthResult{User: &user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	var missing []string
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email is required")
	}
	if password == "" {
		missing = append(missing, "password is required")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	ok, err := hash.CheckPassword(user.PasswordHash, password)
	if err != nil {
		l.Error("login_failed", "reason", "corrupt password hash", "error", err)
		return nil, err
	}
	if !ok {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID.String(), user.Name, user.Email, user.Role)
	if err != nil {
		l.Error("login_failed", "reason", "cannot issue token", "error", err)
		return nil, err
	}

	event := map[string]interface{}{
		"type":    "user_logged_in",
		"user_id": user.ID.String(),
		"email":   user.Email,
	}
	if err := s.Producer.PublishEvent(ctx, events.TopicUserEvents, user.ID.String(), event); err != nil {
		l.Error("event_publish_failed", "topic", events.TopicUserEvents, "error", err)
	}

	l.Info("login_successful", "user_id", user.ID.String())
	return &AuthResult{User: user, Token: token}, nil
}

// Me re-reads the user record instead of trusting the token claims, so
// profile and role changes show up immediately.
func (s *AuthService) Me(ctx context.Context, subject string) (*models.User, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
