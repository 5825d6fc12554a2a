//go:build integration

package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crimeentity "github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	crimerepo "github.com/ovaphlow/pitchfork/service-records-go/internal/crime/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/schema/schematest"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/repo"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/database"
)

func TestSuspectRepo(t *testing.T) {
	db := schematest.NewDB(t)
	crimes := crimerepo.NewCrimeRepo(db)
	suspects := repo.NewSuspectRepo(db)
	ctx := t.Context()

	c := &crimeentity.CrimeReport{Status: crimeentity.StatusOngoing}
	require.NoError(t, crimes.Create(ctx, c))

	first := &entity.Suspect{CrimeReportID: c.ID, SFirstName: "Juan", SLastName: "Dela Cruz", SCrimeType: "Theft"}
	second := &entity.Suspect{CrimeReportID: c.ID, SFirstName: "Ana", SMiddleName: "", SLastName: "Reyes"}
	require.NoError(t, suspects.Create(ctx, first))
	require.NoError(t, suspects.Create(ctx, second))

	t.Run("summaries join name parts newest first", func(t *testing.T) {
		got, err := suspects.SummariesFor(ctx, []int64{c.ID, 424242})
		require.NoError(t, err)
		require.Len(t, got[c.ID], 2)
		assert.Equal(t, "Ana Reyes", got[c.ID][0].Name)
		assert.Equal(t, "Juan Dela Cruz", got[c.ID][1].Name)
		assert.Equal(t, "Theft", got[c.ID][1].SCrimeType)
		assert.Empty(t, got[424242])
	})

	t.Run("search", func(t *testing.T) {
		got, err := suspects.List(ctx, entity.ListFilter{Search: "reyes"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, second.ID, got[0].ID)
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := suspects.Create(ctx, &entity.Suspect{CrimeReportID: 424242})
		constraint, ok := database.ForeignKeyViolation(err)
		require.True(t, ok, "got %v", err)
		assert.Equal(t, "suspects_crime_report_id_fkey", constraint)
	})

	t.Run("update and delete", func(t *testing.T) {
		first.SAge = "31"
		require.NoError(t, suspects.Update(ctx, first))
		got, err := suspects.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "31", got.SAge)

		require.NoError(t, suspects.Delete(ctx, first.ID))
		_, err = suspects.GetByID(ctx, first.ID)
		assert.Error(t, err)
	})
}
