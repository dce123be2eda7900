package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/instasoft/devatshop/internal/hash"
	"github.com/instasoft/devatshop/internal/logging"
	"github.com/instasoft/devatshop/internal/models"
	"github.com/instasoft/devatshop/internal/mykafka"
	"github.com/instasoft/devatshop/internal/repo"
	"github.com/instasoft/devatshop/internal/tokens"
)

const MinPasswordLen = 6

type AuthService struct {
	Repo       *repo.GormRepo
	Tokens     *tokens.Service
	Producer   *mykafka.Producer
	BcryptCost int
}

type TokenPair struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: name and email required", ErrValidation)
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password is at least %d characters long", ErrValidation, MinPasswordLen)
	}

	pwHash, err := hash.HashPassword(password, s.BcryptCost)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_rejected", "reason", "email already exists")
			return nil, fmt.Errorf("%w: the email already exists", ErrValidation)
		}
		l.Error("register_error", "error", err)
		return nil, err
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		l.Error("register_error", "reason", "cannot sign tokens", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("user_registered", "user_id", user.ID)
	return pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_rejected", "reason", "user does not exist")
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		l.Error("login_error", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_rejected", "reason", "incorrect password", "user_id", user.ID)
		return nil, fmt.Errorf("%w: incorrect password", ErrBadCredentials)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign tokens", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("user_logged_in", "user_id", user.ID)
	return pair, nil
}

// Refresh mints a fresh access token against a presented refresh token. The
// refresh token itself is not rotated: it stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	userID, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_rejected")
		return nil, fmt.Errorf("%w: please login or register", ErrNoSession)
	}

	access, accessExp, err := s.Tokens.IssueAccess(userID)
	if err != nil {
		l.Error("refresh_error", "reason", "cannot sign access token", "error", err)
		return nil, err
	}

	return &TokenPair{
		UserID:      userID,
		AccessToken: access,
		AccessExp:   accessExp,
	}, nil
}

func (s *AuthService) issuePair(userID uint) (*TokenPair, error) {
	access, accessExp, err := s.Tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.Tokens.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, userID uint, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
