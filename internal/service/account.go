package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/instasoft/devatshop/internal/hash"
	"github.com/instasoft/devatshop/internal/logging"
	"github.com/instasoft/devatshop/internal/mail"
	"github.com/instasoft/devatshop/internal/models"
	"github.com/instasoft/devatshop/internal/mykafka"
	"github.com/instasoft/devatshop/internal/repo"
	"github.com/instasoft/devatshop/internal/tokens"
)

type AccountService struct {
	Repo       *repo.GormRepo
	Tokens     *tokens.Service
	Mail       *mail.Queue
	Producer   *mykafka.Producer
	ClientURL  string
	BcryptCost int
}

func (s *AccountService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// SetCart replaces the stored cart wholesale. An empty cart clears it.
func (s *AccountService) SetCart(ctx context.Context, userID uint, items []models.CartItem) error {
	l := logging.FromContext(ctx).With("svc", "account.set_cart", "user_id", userID)

	if _, err := s.Repo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return err
	}

	if err := s.Repo.ReplaceCart(ctx, userID, items); err != nil {
		l.Error("set_cart_error", "error", err)
		return err
	}

	l.Info("cart_replaced", "items", len(items))
	return nil
}

func (s *AccountService) History(ctx context.Context, userID uint) ([]models.Payment, error) {
	return s.Repo.ListPayments(ctx, userID)
}

// ForgotPassword mints a reset grant and hands the mail to the background
// queue. Delivery happens after the response; failures are logged only.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "account.forgot_password")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("forgot_password_rejected", "reason", "email does not exist")
			return fmt.Errorf("%w: this email does not exist", ErrNotFound)
		}
		l.Error("forgot_password_error", "error", err)
		return err
	}

	resetToken, _, err := s.Tokens.IssueReset(user.ID)
	if err != nil {
		l.Error("forgot_password_error", "reason", "cannot sign reset token", "error", err)
		return err
	}

	url := strings.TrimRight(s.ClientURL, "/") + "/user/reset/" + resetToken
	s.Mail.Enqueue(mail.ResetMessage(user.Email, url))

	l.Info("reset_mail_enqueued", "user_id", user.ID)
	return nil
}

func (s *AccountService) ResetPassword(ctx context.Context, userID uint, password string) error {
	l := logging.FromContext(ctx).With("svc", "account.reset_password", "user_id", userID)

	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password is at least %d characters long", ErrValidation, MinPasswordLen)
	}

	pwHash, err := hash.HashPassword(password, s.BcryptCost)
	if err != nil {
		l.Error("reset_password_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	if err := s.Repo.UpdatePasswordHash(ctx, userID, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		l.Error("reset_password_error", "error", err)
		return err
	}

	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(userID), map[string]any{
		"type":    "password_reset",
		"user_id": userID,
	}); err != nil {
		l.Error("kafka publish error", "error", err)
	}

	l.Info("password_reset")
	return nil
}
