package personnel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/validation"
)

// Repository is implemented by *repo.ProfileRepo.
type Repository interface {
	List(ctx context.Context, f entity.ListFilter) ([]entity.Profile, error)
	GetByID(ctx context.Context, id int64) (*entity.Profile, error)
	OfficerIDTaken(ctx context.Context, officerID string, exceptID int64) (bool, error)
	Create(ctx context.Context, p *entity.Profile) error
	Update(ctx context.Context, p *entity.Profile) error
	Archive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

const (
	msgNotFound     = "No PersonnelProfile matches the given query."
	msgOfficerTaken = "personnel profile with this officer id already exists."
)

// Images carries the requested changes to the two image fields.
type Images struct {
	IDImage      media.Upload
	ProfileImage media.Upload
}

type Service struct {
	repo    Repository
	storage *media.Storage
	logger  *zap.SugaredLogger
}

func NewService(r Repository, storage *media.Storage, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, storage: storage, logger: logger}
}

func (s *Service) List(ctx context.Context, f entity.ListFilter) ([]entity.Profile, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Create validates and stores a new, unarchived profile.
func (s *Service) Create(ctx context.Context, p *entity.Profile, img Images) (*entity.Profile, error) {
	p.IsArchived = false
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	written, err := s.storeImages(p, img)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.discard(written)
		return nil, translateWriteError(err)
	}
	s.logger.Infow("personnel profile created", "id", p.ID, "officer_id", p.OfficerID)
	return p, nil
}

// Update loads the profile, lets apply change it, validates and persists
// the result. is_archived cannot be changed here.
func (s *Service) Update(ctx context.Context, id int64, apply func(*entity.Profile) error, img Images) (*entity.Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	archived := p.IsArchived
	if err := apply(p); err != nil {
		return nil, err
	}
	p.IsArchived = archived
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	oldID, oldProfile := p.IDImage, p.ProfileImage
	written, err := s.storeImages(p, img)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		s.discard(written)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, translateWriteError(err)
	}
	for _, pair := range [][2]*string{{oldID, p.IDImage}, {oldProfile, p.ProfileImage}} {
		if err := s.storage.Replaced(pair[0], pair[1]); err != nil {
			s.logger.Warnw("remove replaced profile image", "id", id, "err", err)
		}
	}
	s.logger.Infow("personnel profile updated", "id", id)
	return p, nil
}

// Archive sets is_archived and nothing else. Archiving twice is allowed.
func (s *Service) Archive(ctx context.Context, id int64) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(msgNotFound)
		}
		return fmt.Errorf("archive profile: %w", err)
	}
	s.logger.Infow("personnel profile archived", "id", id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(msgNotFound)
		}
		return fmt.Errorf("delete profile: %w", err)
	}
	s.logger.Infow("personnel profile deleted", "id", id)
	return nil
}

func (s *Service) validate(ctx context.Context, p *entity.Profile) error {
	verr := &apperr.ValidationError{}
	if p.Email != "" {
		validation.Check(verr, "email", p.Email, "email")
	}
	if p.OfficerID != "" {
		taken, err := s.repo.OfficerIDTaken(ctx, p.OfficerID, p.ID)
		if err != nil {
			return fmt.Errorf("check officer id: %w", err)
		}
		if taken {
			verr.Add("officer_id", msgOfficerTaken)
		}
	}
	return verr.Err()
}

// storeImages saves new uploads and returns the names written so a failed
// row write can remove them.
func (s *Service) storeImages(p *entity.Profile, img Images) ([]string, error) {
	var written []string
	next, err := s.storage.Apply("id_image", "ids", p.IDImage, img.IDImage)
	if err != nil {
		return nil, err
	}
	if img.IDImage.File != nil {
		written = append(written, *next)
	}
	p.IDImage = next
	next, err = s.storage.Apply("profile_image", "profiles", p.ProfileImage, img.ProfileImage)
	if err != nil {
		s.discard(written)
		return nil, err
	}
	if img.ProfileImage.File != nil {
		written = append(written, *next)
	}
	p.ProfileImage = next
	return written, nil
}

func (s *Service) discard(names []string) {
	for _, n := range names {
		_ = s.storage.Delete(n)
	}
}

func translateWriteError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok && constraint == repo.OfficerIDConstraint {
		return apperr.Invalid("officer_id", msgOfficerTaken)
	}
	return fmt.Errorf("write profile: %w", err)
}
