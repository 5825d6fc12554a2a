package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-records-go/internal/account"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/account/accounttest"
	"github.com/ovaphlow/pitchfork/service-records-go/internal/auth/authtest"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media"
)

type fixture struct {
	svc       *Service
	accounts  *account.Service
	mem       *accounttest.Memory
	blacklist *authtest.Blacklist
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := accounttest.NewMemory()
	accounts := account.NewService(mem, account.BcryptHasher{Cost: bcrypt.MinCost}, media.NewStorage(media.Config{Root: t.TempDir()}), nil)
	bl := authtest.NewBlacklist()
	svc, err := NewService(Config{Secret: "test-secret"}, accounts, bl, nil)
	require.NoError(t, err)
	return &fixture{svc: svc, accounts: accounts, mem: mem, blacklist: bl}
}

func (f *fixture) register(t *testing.T, username, password string, admin bool) int64 {
	t.Helper()
	a, err := f.accounts.Register(context.Background(), account.RegisterInput{Username: username, Password: password})
	require.NoError(t, err)
	if admin {
		f.mem.SetAdmin(a.ID, true)
	}
	return a.ID
}

func detailOf(t *testing.T, err error) *apperr.Detailed {
	t.Helper()
	var d *apperr.Detailed
	require.True(t, errors.As(err, &d), "expected *apperr.Detailed, got %T", err)
	return d
}

func TestLoginPolicies(t *testing.T) {
	f := newFixture(t)
	f.register(t, "officer", "pw-officer", false)
	f.register(t, "chief", "pw-chief", true)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
		policy   Policy
		kind     error
		detail   string
	}{
		{"any accepts officer", "officer", "pw-officer", PolicyAny, nil, ""},
		{"any accepts admin", "chief", "pw-chief", PolicyAny, nil, ""},
		{"user login rejects admin", "chief", "pw-chief", PolicyNonAdminOnly, apperr.ErrForbidden, "Admins cannot login here."},
		{"user login accepts officer", "officer", "pw-officer", PolicyNonAdminOnly, nil, ""},
		{"admin login rejects officer", "officer", "pw-officer", PolicyAdminOnly, apperr.ErrForbidden, "Only admin accounts can log in here."},
		{"admin login accepts admin", "chief", "pw-chief", PolicyAdminOnly, nil, ""},
		{"bad password generic", "officer", "wrong", PolicyAny, apperr.ErrUnauthorized, "No active account found with the given credentials"},
		{"bad password admin", "chief", "wrong", PolicyAdminOnly, apperr.ErrUnauthorized, "Invalid credentials"},
		{"unknown user", "ghost", "pw", PolicyNonAdminOnly, apperr.ErrUnauthorized, "Invalid credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pair, err := f.svc.Login(ctx, tc.username, tc.password, tc.policy)
			if tc.kind == nil {
				require.NoError(t, err)
				assert.NotEmpty(t, pair.Access)
				assert.NotEmpty(t, pair.Refresh)
				assert.Equal(t, tc.username, pair.Username)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind))
			assert.Equal(t, tc.detail, detailOf(t, err).Detail)
		})
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "officer", "pw", false)
	_, err := f.svc.Login(context.Background(), "officer", "pw", PolicyAny)
	require.NoError(t, err)

	a, err := f.mem.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, a.LastLogin)
}

func TestAccessTokenClaims(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "chief", "pw", true)
	pair, err := f.svc.Login(context.Background(), "chief", "pw", PolicyAdminOnly)
	require.NoError(t, err)
	assert.True(t, pair.IsAdmin)

	c, err := f.svc.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, "chief", c.Username)
	assert.True(t, c.IsAdmin)

	_, err = f.svc.ParseAccess(pair.Refresh)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized), "refresh token must not pass as access")
}

func TestRefreshRotatesAndRejectsReuse(t *testing.T) {
	f := newFixture(t)
	f.register(t, "officer", "pw", false)
	ctx := context.Background()
	pair, err := f.svc.Login(ctx, "officer", "pw", PolicyAny)
	require.NoError(t, err)

	next, err := f.svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, next.Refresh)
	assert.Equal(t, 1, f.blacklist.Len())

	_, err = f.svc.Refresh(ctx, pair.Refresh)
	require.Error(t, err)
	assert.Equal(t, "token_not_valid", detailOf(t, err).Code)

	_, err = f.svc.Refresh(ctx, next.Refresh)
	assert.NoError(t, err)
}

func TestRefreshRejectsDeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "officer", "pw", false)
	ctx := context.Background()
	pair, err := f.svc.Login(ctx, "officer", "pw", PolicyAny)
	require.NoError(t, err)
	require.NoError(t, f.accounts.Deactivate(ctx, id))

	_, err = f.svc.Refresh(ctx, pair.Refresh)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	assert.Equal(t, 0, f.blacklist.Len())
}

func TestExpiredAccessToken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "officer", "pw", false)
	pair, err := f.svc.Login(context.Background(), "officer", "pw", PolicyAny)
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = f.svc.ParseAccess(pair.Access)
	require.Error(t, err)
	assert.Equal(t, "Token is invalid or expired", detailOf(t, err).Detail)
}

func TestRejectsForeignSignature(t *testing.T) {
	f := newFixture(t)
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		TokenType:        tokenTypeAccess,
		UserID:           1,
		IsAdmin:          true,
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = f.svc.ParseAccess(signed)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestEphemeralSecret(t *testing.T) {
	svc, err := NewService(Config{}, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, svc.secret, 32)
	assert.Equal(t, 5*time.Minute, svc.cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, svc.cfg.RefreshTTL)
}
