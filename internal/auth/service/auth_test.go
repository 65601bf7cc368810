package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/registry"
	"github.com/Damatnic/astral-planner-sub006/internal/auth/store/drivers/sqlite"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	reg, err := registry.New(registry.DefaultAccounts())
	require.NoError(t, err)

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return &AuthService{
		Registry: reg,
		Lockout:  NewLockoutTracker(),
		Tokens:   newTokenService(t),
		Sessions: &SessionService{Store: st},
	}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "demo-user", "0000", "device-1")
	require.NoError(t, err)
	require.Equal(t, "demo-user", res.Account.ID)
	require.Equal(t, "Demo Explorer", res.Account.DisplayName)
	require.True(t, res.Account.Demo)
	require.False(t, res.Account.Premium)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)
	require.Equal(t, "device-1", res.Session.DeviceFingerprint)

	// The minted access token resolves straight back to the account.
	account, err := svc.Whoami(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "demo-user", account.ID)
}

func TestLoginWrongPIN(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), "demo-user", "9999", "")
	var invalid *InvalidCredentialsError
	require.ErrorAs(t, err, &invalid)
	require.EqualValues(t, 4, invalid.AttemptsRemaining)
}

func TestLoginUnknownAccountLooksLikeWrongPIN(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, "no-such-account", "1234", "")
	_, errWrongPIN := svc.Login(ctx, "demo-user", "9999", "")

	var a, b *InvalidCredentialsError
	require.ErrorAs(t, errUnknown, &a)
	require.ErrorAs(t, errWrongPIN, &b)
	require.Equal(t, b.AttemptsRemaining, a.AttemptsRemaining)
}

func TestLoginMalformedPIN(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	for _, pin := range []string{"", "123", "12345", "12a4", "৪৪৪৪"} {
		_, err := svc.Login(ctx, "demo-user", pin, "")
		require.ErrorIs(t, err, ErrMalformedPIN, "pin %q", pin)
	}

	// Malformed input never burns attempts.
	require.Zero(t, svc.Lockout.Snapshot("demo-user").Failures)
}

func TestLoginLockout(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < LockoutThreshold-1; i++ {
		_, err := svc.Login(ctx, "guest", "0001", "")
		var invalid *InvalidCredentialsError
		require.ErrorAs(t, err, &invalid)
	}

	// The fifth failure reports the lockout, not invalid credentials.
	_, err := svc.Login(ctx, "guest", "0001", "")
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	require.InDelta(t, LockoutDuration.Seconds(), locked.Remaining.Seconds(), 2)

	// Even the correct PIN is refused while the window holds.
	_, err = svc.Login(ctx, "guest", "2580", "")
	require.ErrorAs(t, err, &locked)
}

func TestLockoutTimesFollowInjectedClock(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	frozen := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.Lockout.now = func() time.Time { return frozen }

	for i := 0; i < LockoutThreshold-1; i++ {
		_, _ = svc.Login(ctx, "guest", "0001", "")
	}

	// The threshold-crossing failure reports times off the frozen clock,
	// not the wall clock.
	_, err := svc.Login(ctx, "guest", "0001", "")
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	require.True(t, locked.Until.Equal(frozen.Add(LockoutDuration)))
	require.Equal(t, LockoutDuration, locked.Remaining)

	// So does the locked rejection on the next attempt.
	frozen = frozen.Add(5 * time.Minute)
	_, err = svc.Login(ctx, "guest", "2580", "")
	require.ErrorAs(t, err, &locked)
	require.True(t, locked.Until.Equal(frozen.Add(10*time.Minute)))
	require.Equal(t, 10*time.Minute, locked.Remaining)
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = svc.Login(ctx, "nick", "0001", "")
	}

	_, err := svc.Login(ctx, "nick", "7347", "")
	require.NoError(t, err)
	require.Zero(t, svc.Lockout.Snapshot("nick").Failures)
}

func TestRefreshRotation(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "nick", "7347", "laptop")
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)

	// The new access token still works.
	account, err := svc.Whoami(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "nick", account.ID)

	// The spent refresh token was rotated away and now reads as expired.
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrTokenExpired)

	// The replacement keeps working.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshAfterLogout(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "nick", "7347", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "nick"))

	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshGarbage(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestSecondLoginSupersedesFirstRefreshToken(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "nick", "7347", "laptop")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "nick", "7347", "phone")
	require.NoError(t, err)

	// The displaced session's refresh token is dead, the new one lives.
	_, err = svc.Refresh(ctx, first.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.Refresh(ctx, second.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestWhoamiRejectsBadTokens(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Whoami(ctx, "garbage")
	require.ErrorIs(t, err, ErrTokenMalformed)

	res, err := svc.Login(ctx, "nick", "7347", "")
	require.NoError(t, err)

	// A refresh token is never a valid identity proof.
	_, err = svc.Whoami(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestLogoutIdempotent(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "guest", "2580", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "guest"))
	require.NoError(t, svc.Logout(ctx, "guest"))
	require.NoError(t, svc.Logout(ctx, "never-logged-in"))
}

func TestHousekeepingSweepsExpiredRows(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "nick", "7347", "")
	require.NoError(t, err)

	// Nothing is old enough yet.
	n, err := svc.Sessions.Store.Sessions().DeleteExpiredSessions(ctx, time.Now().Add(-DefaultSessionTTL))
	require.NoError(t, err)
	require.Zero(t, n)

	// A cutoff in the future sweeps the row.
	n, err = svc.Sessions.Store.Sessions().DeleteExpiredSessions(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
