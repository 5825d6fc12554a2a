package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/utilities"
)

type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ConfigFromEnv reads JWT_* variables. Lifetimes default to 5 minutes for
// access tokens and one day for refresh tokens.
func ConfigFromEnv() Config {
	return Config{
		Secret:     utilities.EnvString("JWT_SECRET", ""),
		Issuer:     utilities.EnvString("JWT_ISSUER", ""),
		AccessTTL:  utilities.EnvDuration("JWT_ACCESS_TTL", 5*time.Minute),
		RefreshTTL: utilities.EnvDuration("JWT_REFRESH_TTL", 24*time.Hour),
	}
}

// Accounts is the credential store as seen by the issuer.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) (*entity.Account, error)
	Get(ctx context.Context, id int64) (*entity.Account, error)
	RecordLogin(ctx context.Context, id int64)
}

// Blacklist records rotated refresh tokens.
type Blacklist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, accountID int64, expiresAt time.Time) (bool, error)
}

var errTokenInvalid = &apperr.Detailed{Kind: apperr.ErrUnauthorized, Detail: "Token is invalid or expired", Code: "token_not_valid"}

// Service validates credentials and mints signed HS256 token pairs.
type Service struct {
	accounts  Accounts
	blacklist Blacklist
	secret    []byte
	cfg       Config
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewService builds the issuer. With an empty secret a random one is
// generated, so tokens do not survive a restart.
func NewService(cfg Config, accounts Accounts, blacklist Blacklist, logger *zap.SugaredLogger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		logger.Warnw("JWT_SECRET not set; using an ephemeral signing key", "key_id", base64.RawURLEncoding.EncodeToString(secret[:4]))
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 5 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	return &Service{accounts: accounts, blacklist: blacklist, secret: secret, cfg: cfg, logger: logger, now: time.Now}, nil
}

// Login checks credentials and then the role policy. Bad credentials are
// reported before any role mismatch so the policy never leaks whether a
// password was right.
func (s *Service) Login(ctx context.Context, username, password string, policy Policy) (*TokenPair, error) {
	a, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, account.ErrBadCredentials) {
			return nil, apperr.Unauthorized(badCredentialsDetail(policy))
		}
		return nil, err
	}
	switch {
	case policy == PolicyNonAdminOnly && a.IsAdmin:
		return nil, apperr.Forbidden("Admins cannot login here.")
	case policy == PolicyAdminOnly && !a.IsAdmin:
		return nil, apperr.Forbidden("Only admin accounts can log in here.")
	}
	pair, err := s.issue(a)
	if err != nil {
		return nil, err
	}
	s.accounts.RecordLogin(ctx, a.ID)
	s.logger.Debugw("login", "account_id", a.ID, "policy", policy.String())
	return pair, nil
}

func badCredentialsDetail(p Policy) string {
	if p == PolicyAny {
		return "No active account found with the given credentials"
	}
	return "Invalid credentials"
}

// Refresh rotates a refresh token: the presented token is blacklisted and a
// new pair is minted from the account's current state.
func (s *Service) Refresh(ctx context.Context, refresh string) (*TokenPair, error) {
	c, err := s.parse(refresh, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("check refresh token: %w", err)
	}
	if revoked {
		return nil, errTokenInvalid
	}
	a, err := s.accounts.Get(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errTokenInvalid
		}
		return nil, err
	}
	if !a.IsActive {
		return nil, errTokenInvalid
	}
	exp := s.now().Add(s.cfg.RefreshTTL)
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	// Revoke is the atomic step; of two concurrent rotations only one wins.
	fresh, err := s.blacklist.Revoke(ctx, c.ID, c.UserID, exp)
	if err != nil {
		return nil, fmt.Errorf("blacklist refresh token: %w", err)
	}
	if !fresh {
		return nil, errTokenInvalid
	}
	return s.issue(a)
}

// ParseAccess verifies an access token and returns its claims.
func (s *Service) ParseAccess(token string) (*Claims, error) {
	return s.parse(token, tokenTypeAccess)
}

func (s *Service) parse(token, wantType string) (*Claims, error) {
	c := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) { return s.secret, nil }, opts...)
	if err != nil || c.TokenType != wantType || c.ID == "" {
		return nil, errTokenInvalid
	}
	return c, nil
}

func (s *Service) issue(a *entity.Account) (*TokenPair, error) {
	now := s.now()
	access, err := s.sign(a, tokenTypeAccess, now, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(a, tokenTypeRefresh, now, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh, Username: a.Username, IsAdmin: a.IsAdmin}, nil
}

func (s *Service) sign(a *entity.Account, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utilities.NewSnowflakeID(),
			Subject:   strconv.FormatInt(a.ID, 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
		UserID:    a.ID,
		Username:  a.Username,
		IsAdmin:   a.IsAdmin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}
