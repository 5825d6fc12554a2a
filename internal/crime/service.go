package crime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

// Repository is implemented by *repo.CrimeRepo.
type Repository interface {
	List(ctx context.Context, f entity.ListFilter) ([]entity.CrimeReport, error)
	GetByID(ctx context.Context, id int64) (*entity.CrimeReport, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, c *entity.CrimeReport) error
	Update(ctx context.Context, c *entity.CrimeReport) error
	Delete(ctx context.Context, id int64) error
}

// SuspectSummaries loads the suspect summaries of several reports at once.
type SuspectSummaries interface {
	SummariesFor(ctx context.Context, crimeIDs []int64) (map[int64][]entity.SuspectSummary, error)
}

const msgNotFound = "No CrimeReport matches the given query."

// Detail is a report together with its suspect summaries.
type Detail struct {
	Report   *entity.CrimeReport
	Suspects []entity.SuspectSummary
}

type Service struct {
	repo     Repository
	suspects SuspectSummaries
	storage  *media.Storage
	logger   *zap.SugaredLogger
}

func NewService(r Repository, suspects SuspectSummaries, storage *media.Storage, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, suspects: suspects, storage: storage, logger: logger}
}

// List returns reports with their suspects in one extra query.
func (s *Service) List(ctx context.Context, f entity.ListFilter) ([]Detail, error) {
	rows, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list crime reports: %w", err)
	}
	ids := make([]int64, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	byCrime, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Detail, len(rows))
	for i := range rows {
		out[i] = Detail{Report: &rows[i], Suspects: nonNil(byCrime[rows[i].ID])}
	}
	return out, nil
}

// Get returns a non-archived report.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, c)
}

// Exists reports whether id names a report, archived or not.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Create stores a new report. A new victim photo is filed under
// victims/new since the id is not known yet.
func (s *Service) Create(ctx context.Context, c *entity.CrimeReport, photo media.Upload) (*Detail, error) {
	if c.Status == "" {
		c.Status = entity.StatusOngoing
	}
	c.IsArchived = false
	stored, err := s.storage.Apply("v_photo", "victims/new", nil, photo)
	if err != nil {
		return nil, err
	}
	c.VPhoto = stored
	if err := s.repo.Create(ctx, c); err != nil {
		if stored != nil {
			_ = s.storage.Delete(*stored)
		}
		return nil, fmt.Errorf("create crime report: %w", err)
	}
	s.logger.Infow("crime report created", "id", c.ID, "crime_type", c.CrimeType)
	return &Detail{Report: c, Suspects: []entity.SuspectSummary{}}, nil
}

// Update loads the report, lets apply change it and persists the result.
// apply returns validation errors from binding; a replaced photo is removed
// from storage after the row is written.
func (s *Service) Update(ctx context.Context, id int64, apply func(*entity.CrimeReport) error, photo media.Upload) (*Detail, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(c); err != nil {
		return nil, err
	}
	old := c.VPhoto
	next, err := s.storage.Apply("v_photo", "victims/"+strconv.FormatInt(id, 10), old, photo)
	if err != nil {
		return nil, err
	}
	c.VPhoto = next
	if err := s.repo.Update(ctx, c); err != nil {
		if next != old && next != nil {
			_ = s.storage.Delete(*next)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, fmt.Errorf("update crime report: %w", err)
	}
	if err := s.storage.Replaced(old, next); err != nil {
		s.logger.Warnw("remove replaced victim photo", "id", id, "err", err)
	}
	s.logger.Infow("crime report updated", "id", id)
	return s.detail(ctx, c)
}

// Delete removes a non-archived report and, by cascade, its suspects.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(msgNotFound)
		}
		return fmt.Errorf("delete crime report: %w", err)
	}
	s.logger.Infow("crime report deleted", "id", id)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*entity.CrimeReport, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(msgNotFound)
		}
		return nil, fmt.Errorf("load crime report: %w", err)
	}
	if c.IsArchived {
		return nil, apperr.NotFound(msgNotFound)
	}
	return c, nil
}

func (s *Service) detail(ctx context.Context, c *entity.CrimeReport) (*Detail, error) {
	byCrime, err := s.summaries(ctx, []int64{c.ID})
	if err != nil {
		return nil, err
	}
	return &Detail{Report: c, Suspects: nonNil(byCrime[c.ID])}, nil
}

func (s *Service) summaries(ctx context.Context, ids []int64) (map[int64][]entity.SuspectSummary, error) {
	if len(ids) == 0 || s.suspects == nil {
		return map[int64][]entity.SuspectSummary{}, nil
	}
	m, err := s.suspects.SummariesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load suspect summaries: %w", err)
	}
	return m, nil
}

func nonNil(s []entity.SuspectSummary) []entity.SuspectSummary {
	if s == nil {
		return []entity.SuspectSummary{}
	}
	return s
}
