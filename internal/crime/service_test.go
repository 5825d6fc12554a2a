package crime

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime/crimetest"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/crime/entity"
	suspectentity "github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/entity"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/suspect/suspecttest"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media/mediatest"
)

type fixture struct {
	svc      *Service
	crimes   *crimetest.Memory
	suspects *suspecttest.Memory
	storage  *media.Storage
	root     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	crimes := crimetest.NewMemory()
	suspects := suspecttest.NewMemory(crimes)
	crimes.OnDelete = suspects.DeleteByReport
	root := t.TempDir()
	storage := media.NewStorage(media.Config{Root: root})
	return &fixture{
		svc:      NewService(crimes, suspects, storage, nil),
		crimes:   crimes,
		suspects: suspects,
		storage:  storage,
		root:     root,
	}
}

func (f *fixture) create(t *testing.T, c entity.CrimeReport) *entity.CrimeReport {
	t.Helper()
	d, err := f.svc.Create(context.Background(), &c, media.Upload{})
	require.NoError(t, err)
	return d.Report
}

func TestCreateDefaultsStatus(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, entity.CrimeReport{CrimeType: "Theft", IsArchived: true})
	assert.Equal(t, entity.StatusOngoing, c.Status)
	assert.False(t, c.IsArchived, "archived flag is not writable on create")
	assert.NotZero(t, c.ID)
}

func TestCreateStoresVictimPhoto(t *testing.T) {
	f := newFixture(t)
	d, err := f.svc.Create(context.Background(), &entity.CrimeReport{},
		media.Upload{File: mediatest.FileHeader(t, "v_photo", "victim.png", mediatest.PNG)})
	require.NoError(t, err)
	require.NotNil(t, d.Report.VPhoto)
	assert.Equal(t, "victims/new/victim.png", *d.Report.VPhoto)
	assert.FileExists(t, filepath.Join(f.root, "victims", "new", "victim.png"))
	assert.Equal(t, []entity.SuspectSummary{}, d.Suspects)
}

func TestListHidesArchivedAndSearches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, entity.CrimeReport{CrimeType: "Theft", VFirstName: "Juan", VLastName: "Dela Cruz"})
	b := f.create(t, entity.CrimeReport{CrimeType: "Illegal Fishing", VFirstName: "Maria", VLastName: "Santos"})
	archived := f.create(t, entity.CrimeReport{CrimeType: "Theft", VFirstName: "Pedro"})
	f.crimes.Archive(archived.ID)

	all, err := f.svc.List(ctx, entity.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].Report.ID, "newest first")
	assert.Equal(t, a.ID, all[1].Report.ID)

	hits, err := f.svc.List(ctx, entity.ListFilter{Search: "theft juan"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, a.ID, hits[0].Report.ID)

	hits, err = f.svc.List(ctx, entity.ListFilter{Search: "theft, maria"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	unfiltered, err := f.svc.List(ctx, entity.ListFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, unfiltered, 3)

	_, err = f.svc.Get(ctx, archived.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDetailIncludesSuspectSummariesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.create(t, entity.CrimeReport{CrimeType: "Robbery"})
	require.NoError(t, f.suspects.Create(ctx, &suspectentity.Suspect{CrimeReportID: c.ID, SFirstName: "Jose", SLastName: "Rizal", SCrimeType: "Robbery"}))
	require.NoError(t, f.suspects.Create(ctx, &suspectentity.Suspect{CrimeReportID: c.ID, SFirstName: "Ana", SMiddleName: "B."}))

	d, err := f.svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, d.Suspects, 2)
	assert.Equal(t, "Ana B.", d.Suspects[0].Name)
	assert.Equal(t, "Jose Rizal", d.Suspects[1].Name)
	assert.Equal(t, "Robbery", d.Suspects[1].SCrimeType)
}

func TestUpdateAppliesAndReplacesPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d, err := f.svc.Create(ctx, &entity.CrimeReport{VFirstName: "Juan"},
		media.Upload{File: mediatest.FileHeader(t, "v_photo", "first.png", mediatest.PNG)})
	require.NoError(t, err)
	id := d.Report.ID

	out, err := f.svc.Update(ctx, id, func(c *entity.CrimeReport) error {
		c.Status = "Solved"
		return nil
	}, media.Upload{File: mediatest.FileHeader(t, "v_photo", "second.png", mediatest.PNG)})
	require.NoError(t, err)
	assert.Equal(t, "Solved", out.Report.Status)
	assert.Equal(t, "Juan", out.Report.VFirstName)
	require.NotNil(t, out.Report.VPhoto)
	assert.Equal(t, "victims/1/second.png", *out.Report.VPhoto)
	assert.NoFileExists(t, filepath.Join(f.root, "victims", "new", "first.png"))

	_, err = f.svc.Update(ctx, id, func(c *entity.CrimeReport) error {
		return apperr.Invalid("status", "bad")
	}, media.Upload{})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	_, err = f.svc.Update(ctx, 999, func(*entity.CrimeReport) error { return nil }, media.Upload{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteCascadesSuspects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.create(t, entity.CrimeReport{})
	other := f.create(t, entity.CrimeReport{})
	require.NoError(t, f.suspects.Create(ctx, &suspectentity.Suspect{CrimeReportID: c.ID}))
	require.NoError(t, f.suspects.Create(ctx, &suspectentity.Suspect{CrimeReportID: other.ID}))

	require.NoError(t, f.svc.Delete(ctx, c.ID))
	left, err := f.suspects.List(ctx, suspectentity.ListFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, other.ID, left[0].CrimeReportID)

	assert.True(t, errors.Is(f.svc.Delete(ctx, c.ID), apperr.ErrNotFound))
}
