package region

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/region/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/validation"
)

// Repository is implemented by *repo.RegionRepo.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]entity.Region, error)
	Upsert(ctx context.Context, regions []entity.Region) (int, error)
}

// Service serves read-only region reference data.
type Service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(r Repository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, logger: logger}
}

// List returns regions ordered by code.
func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.Region, error) {
	out, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return out, nil
}

type seedFile struct {
	Regions []entity.Region `yaml:"regions"`
}

// Import reads a YAML seed document and upserts its regions by code.
//
//	regions:
//	  - code: "01"
//	    name: Ilocos Region
func (s *Service) Import(ctx context.Context, src io.Reader) (int, error) {
	var doc seedFile
	if err := yaml.NewDecoder(src).Decode(&doc); err != nil && err != io.EOF {
		return 0, fmt.Errorf("decode region seed: %w", err)
	}
	verr := &apperr.ValidationError{}
	seen := map[string]bool{}
	for i := range doc.Regions {
		reg := &doc.Regions[i]
		reg.Code = strings.TrimSpace(reg.Code)
		reg.Name = strings.TrimSpace(reg.Name)
		field := fmt.Sprintf("regions[%d]", i)
		if errs := validation.Struct(reg); errs != nil {
			names := make([]string, 0, len(errs))
			for name := range errs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				verr.Add(field, name+": "+strings.Join(errs[name], " "))
			}
		} else if seen[reg.Code] {
			verr.Add(field, fmt.Sprintf("duplicate code %q.", reg.Code))
		}
		seen[reg.Code] = true
	}
	if err := verr.Err(); err != nil {
		return 0, err
	}
	n, err := s.repo.Upsert(ctx, doc.Regions)
	if err != nil {
		return 0, fmt.Errorf("upsert regions: %w", err)
	}
	s.logger.Infow("regions imported", "count", n)
	return n, nil
}
