package suspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

// Repository is implemented by *repo.SuspectRepo.
type Repository interface {
	List(ctx context.Context, f entity.ListFilter) ([]entity.Suspect, error)
	GetByID(ctx context.Context, id int64) (*entity.Suspect, error)
	Create(ctx context.Context, s *entity.Suspect) error
	Update(ctx context.Context, s *entity.Suspect) error
	Delete(ctx context.Context, id int64) error
}

// Reports resolves the crime_report reference.
type Reports interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

const msgNotFound = "No Suspect matches the given query."

type Service struct {
	repo    Repository
	reports Reports
	storage *media.Storage
	logger  *zap.SugaredLogger
}

func NewService(r Repository, reports Reports, storage *media.Storage, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, reports: reports, storage: storage, logger: logger}
}

func (s *Service) List(ctx context.Context, f entity.ListFilter) ([]entity.Suspect, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list suspects: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Suspect, error) {
	return s.load(ctx, id)
}

// Create stores a suspect of an existing report. A new photo is filed under
// suspects/new since the id is not known yet.
func (s *Service) Create(ctx context.Context, in *entity.Suspect, photo media.Upload) (*entity.Suspect, error) {
	if err := s.checkReport(ctx, in.CrimeReportID); err != nil {
		return nil, err
	}
	stored, err := s.storage.Apply("s_photo", "suspects/new", nil, photo)
	if err != nil {
		return nil, err
	}
	in.SPhoto = stored
	if err := s.repo.Create(ctx, in); err != nil {
		if stored != nil {
			_ = s.storage.Delete(*stored)
		}
		return nil, s.translateWriteError(in.CrimeReportID, err)
	}
	s.logger.Infow("suspect created", "id", in.ID, "crime_report", in.CrimeReportID)
	return in, nil
}

// Update loads the suspect, lets apply change it and persists the result.
func (s *Service) Update(ctx context.Context, id int64, apply func(*entity.Suspect) error, photo media.Upload) (*entity.Suspect, error) {
	sp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := sp.CrimeReportID
	if err := apply(sp); err != nil {
		return nil, err
	}
	if sp.CrimeReportID != before {
		if err := s.checkReport(ctx, sp.CrimeReportID); err != nil {
			return nil, err
		}
	}
	old := sp.SPhoto
	next, err := s.storage.Apply("s_photo", "suspects/"+strconv.FormatInt(id, 10), old, photo)
	if err != nil {
		return nil, err
	}
	sp.SPhoto = next
	if err := s.repo.Update(ctx, sp); err != nil {
		if next != old && next != nil {
			_ = s.storage.Delete(*next)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, s.translateWriteError(sp.CrimeReportID, err)
	}
	if err := s.storage.Replaced(old, next); err != nil {
		s.logger.Warnw("remove replaced suspect photo", "id", id, "err", err)
	}
	s.logger.Infow("suspect updated", "id", id)
	return sp, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(msgNotFound)
		}
		return fmt.Errorf("delete suspect: %w", err)
	}
	s.logger.Infow("suspect deleted", "id", id)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*entity.Suspect, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, fmt.Errorf("load suspect: %w", err)
	}
	return sp, nil
}

func (s *Service) checkReport(ctx context.Context, id int64) error {
	ok, err := s.reports.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check crime report: %w", err)
	}
	if !ok {
		return missingReport(id)
	}
	return nil
}

// translateWriteError maps a foreign-key failure, i.e. the report vanished
// between the check and the write, to the same field error.
func (s *Service) translateWriteError(crimeID int64, err error) error {
	if _, ok := database.ForeignKeyViolation(err); ok {
		return missingReport(crimeID)
	}
	return fmt.Errorf("write suspect: %w", err)
}

func missingReport(id int64) error {
	return apperr.Invalid("crime_report", fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, id))
}
