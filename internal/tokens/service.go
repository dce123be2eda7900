package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSession covers every verification failure: bad signature,
// expired, malformed, wrong token class. Callers never learn which.
var ErrInvalidSession = errors.New("invalid session")

const (
	DefaultAccessTTL  = 12 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
	DefaultResetTTL   = 15 * time.Minute
)

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	ResetSecret   []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

type Service struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Service {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.ResetTTL == 0 {
		cfg.ResetTTL = DefaultResetTTL
	}
	return &Service{cfg: cfg, now: time.Now}
}

func (s *Service) IssueAccess(userID uint) (string, time.Time, error) {
	exp := s.now().Add(s.cfg.AccessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatUserID(userID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.AccessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Service) IssueRefresh(userID uint) (string, time.Time, error) {
	exp := s.now().Add(s.cfg.RefreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatUserID(userID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Service) IssueReset(userID uint) (string, time.Time, error) {
	exp := s.now().Add(s.cfg.ResetTTL)
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatUserID(userID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.ResetSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Service) VerifyAccess(raw string) (uint, error) {
	var claims AccessClaims
	return s.verify(raw, &claims, s.cfg.AccessSecret, func() string { return claims.Subject })
}

func (s *Service) VerifyRefresh(raw string) (uint, error) {
	var claims RefreshClaims
	return s.verify(raw, &claims, s.cfg.RefreshSecret, func() string { return claims.Subject })
}

func (s *Service) VerifyReset(raw string) (uint, error) {
	var claims ResetClaims
	return s.verify(raw, &claims, s.cfg.ResetSecret, func() string { return claims.Subject })
}

func (s *Service) verify(raw string, claims jwt.Claims, secret []byte, subject func() string) (uint, error) {
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !tkn.Valid {
		return 0, ErrInvalidSession
	}

	userID, err := parseUserID(subject())
	if err != nil {
		return 0, ErrInvalidSession
	}
	return userID, nil
}

func formatUserID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseUserID(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
