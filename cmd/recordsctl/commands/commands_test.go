package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/account/accounttest"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/region"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/region/regiontest"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"migrate"},
		{"regions", "import"},
		{"accounts", "create-admin"},
		{"tokens", "flush-expired"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestImportRegionsFromFile(t *testing.T) {
	mem := regiontest.NewMemory()
	svc := region.NewService(mem, nil)
	file := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(file, []byte("regions:\n  - code: \"02\"\n    name: Cagayan Valley\n  - code: \"01\"\n    name: Ilocos\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, importRegions(context.Background(), svc, nil, &out, file))
	assert.Equal(t, "imported 2 regions\n", out.String())

	got, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "01", got[0].Code)
}

func TestImportRegionsFromStdin(t *testing.T) {
	svc := region.NewService(regiontest.NewMemory(), nil)
	var out bytes.Buffer
	err := importRegions(context.Background(), svc, strings.NewReader("regions:\n  - code: \"\"\n    name: x\n"), &out, "-")
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestImportRegionsMissingFile(t *testing.T) {
	svc := region.NewService(regiontest.NewMemory(), nil)
	err := importRegions(context.Background(), svc, nil, &bytes.Buffer{}, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestCreateAdmin(t *testing.T) {
	svc := account.NewService(accounttest.NewMemory(), account.BcryptHasher{Cost: bcrypt.MinCost},
		media.NewStorage(media.Config{Root: t.TempDir()}), nil)

	var out bytes.Buffer
	require.NoError(t, createAdmin(context.Background(), svc, strings.NewReader("hunter2\n"), &out, "chief", "Chief@Example.com", ""))
	assert.Equal(t, "created admin \"chief\" (id 1)\n", out.String())

	a, err := svc.Authenticate(context.Background(), "chief", "hunter2")
	require.NoError(t, err)
	assert.True(t, a.IsAdmin)
	assert.Equal(t, "Chief@example.com", a.Email)
}

func TestCreateAdminRejectsEmptyPassword(t *testing.T) {
	svc := account.NewService(accounttest.NewMemory(), account.BcryptHasher{Cost: bcrypt.MinCost},
		media.NewStorage(media.Config{Root: t.TempDir()}), nil)
	err := createAdmin(context.Background(), svc, strings.NewReader(""), &bytes.Buffer{}, "chief", "", "")
	assert.EqualError(t, err, "password must not be empty")
}
