package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/validation"
)

// Repository is the persistence surface the service needs; *repo.AccountRepo
// satisfies it.
type Repository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	BadgeNumberExists(ctx context.Context, badge string) (bool, error)
	TouchLastLogin(ctx context.Context, id int64) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Deactivate(ctx context.Context, id int64) error
}

var ErrBadCredentials = errors.New("invalid credentials")

const (
	msgUsernameTaken = "This username is already taken."
	msgBadgeTaken    = "personnel with this badge number already exists."
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// bcrypt rejects longer passwords outright.
const maxPasswordBytes = 72

var msgPasswordTooLong = fmt.Sprintf("Ensure this field has no more than %d characters.", maxPasswordBytes)

// Service orchestrates registration, authentication and deactivation of
// accounts.
type Service struct {
	repo    Repository
	hasher  PasswordHasher
	storage *media.Storage
	logger  *zap.SugaredLogger
}

func NewService(r Repository, hasher PasswordHasher, storage *media.Storage, logger *zap.SugaredLogger) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, hasher: hasher, storage: storage, logger: logger}
}

// RegisterInput is the registration form. Password is plaintext and must
// not be logged.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	BadgeNumber *string
	IDImage     *multipart.FileHeader
}

// Register creates a regular (non-admin) account. No token is issued.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	verr := &apperr.ValidationError{}
	if !usernamePattern.MatchString(in.Username) {
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	} else if taken, err := s.repo.UsernameExists(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		verr.Add("username", msgUsernameTaken)
	}
	if in.Email != "" {
		validation.Check(verr, "email", in.Email, "email")
	}
	if len(in.Password) > maxPasswordBytes {
		verr.Add("password", msgPasswordTooLong)
	}
	if in.BadgeNumber != nil {
		taken, err := s.repo.BadgeNumberExists(ctx, *in.BadgeNumber)
		if err != nil {
			return nil, fmt.Errorf("check badge number: %w", err)
		}
		if taken {
			verr.Add("badge_number", msgBadgeTaken)
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{
		Username:     in.Username,
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		BadgeNumber:  in.BadgeNumber,
		IsActive:     true,
	}
	if in.IDImage != nil {
		name, err := s.storage.Save("id_image", "ids", in.IDImage)
		if err != nil {
			return nil, err
		}
		a.IDImage = &name
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if a.IDImage != nil {
			_ = s.storage.Delete(*a.IDImage)
		}
		return nil, translateWriteError(err)
	}
	s.logger.Infow("account registered", "id", a.ID, "username", a.Username)
	return a, nil
}

// CreateAdmin creates an active admin account. Used by the CLI.
func (s *Service) CreateAdmin(ctx context.Context, username, email, password string) (*entity.Account, error) {
	if !usernamePattern.MatchString(username) {
		return nil, apperr.Invalid("username", "Enter a valid username.")
	}
	if password == "" {
		return nil, apperr.Invalid("password", "This field may not be blank.")
	}
	if len(password) > maxPasswordBytes {
		return nil, apperr.Invalid("password", msgPasswordTooLong)
	}
	if email != "" {
		verr := &apperr.ValidationError{}
		if !validation.Check(verr, "email", email, "email") {
			return nil, verr
		}
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{Username: username, Email: NormalizeEmail(email), PasswordHash: hash, IsAdmin: true, IsActive: true}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, translateWriteError(err)
	}
	s.logger.Infow("admin account created", "id", a.ID, "username", a.Username)
	return a, nil
}

// Authenticate checks username/password. Unknown users, wrong passwords and
// inactive accounts all yield ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.Account, error) {
	a, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// burn comparable time so unknown usernames are not distinguishable
			_, _ = s.hasher.Hash(password)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !s.hasher.Verify(a.PasswordHash, password) || !a.IsActive {
		return nil, ErrBadCredentials
	}
	s.upgradeHash(ctx, a, password)
	return a, nil
}

type rehasher interface {
	NeedsRehash(hash string) bool
}

// upgradeHash re-hashes a verified password whose stored hash was made
// with a different cost. Failures are logged; the login still succeeds.
func (s *Service) upgradeHash(ctx context.Context, a *entity.Account, password string) {
	rh, ok := s.hasher.(rehasher)
	if !ok || !rh.NeedsRehash(a.PasswordHash) {
		return
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warnw("password rehash failed", "id", a.ID, "err", err)
		return
	}
	if err := s.repo.UpdatePasswordHash(ctx, a.ID, hash); err != nil {
		s.logger.Warnw("store rehashed password failed", "id", a.ID, "err", err)
		return
	}
	a.PasswordHash = hash
	s.logger.Infow("password hash upgraded", "id", a.ID)
}

// NormalizeEmail lowercases the domain part of an address and leaves the
// local part as entered.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// Get loads an account by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("No Personnel matches the given query.")
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return a, nil
}

// RecordLogin stamps last_login; failures are logged, not returned.
func (s *Service) RecordLogin(ctx context.Context, id int64) {
	if err := s.repo.TouchLastLogin(ctx, id); err != nil {
		s.logger.Warnw("record last login failed", "id", id, "err", err)
	}
}

// Deactivate disables login for an account. This is the account-level
// archive; it does not touch personnel profiles.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("No Personnel matches the given query.")
		}
		return fmt.Errorf("deactivate account: %w", err)
	}
	s.logger.Infow("account deactivated", "id", id)
	return nil
}

func translateWriteError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case "accounts_username_key":
			return apperr.Invalid("username", msgUsernameTaken)
		case "accounts_badge_number_key":
			return apperr.Invalid("badge_number", msgBadgeTaken)
		}
	}
	return fmt.Errorf("create account: %w", err)
}
