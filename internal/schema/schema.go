// Package schema creates every table the service needs.
package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	accountrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/account/repo"
	authrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/auth/repo"
	crimerepo "github.com/ovaphlow/pitchfork/service-records-go/internal/crime/repo"
	personnelrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/personnel/repo"
	regionrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/region/repo"
	suspectrepo "github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/repo"
)

type tableEnsurer interface {
	EnsureTable(ctx context.Context) error
}

// EnsureTables runs the idempotent DDL of each repository. suspects
// references crime_reports, so it comes last.
func EnsureTables(ctx context.Context, db *sqlx.DB) error {
	steps := []struct {
		name string
		repo tableEnsurer
	}{
		{"accounts", accountrepo.NewAccountRepo(db)},
		{"token_blacklist", authrepo.NewBlacklistRepo(db)},
		{"regions", regionrepo.NewRegionRepo(db)},
		{"personnel_profiles", personnelrepo.NewProfileRepo(db)},
		{"crime_reports", crimerepo.NewCrimeRepo(db)},
		{"suspects", suspectrepo.NewSuspectRepo(db)},
	}
	for _, s := range steps {
		if err := s.repo.EnsureTable(ctx); err != nil {
			return fmt.Errorf("ensure %s: %w", s.name, err)
		}
	}
	return nil
}
