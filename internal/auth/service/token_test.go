package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
	"github.com/Damatnic/astral-planner-sub006/pkg/jwtx"
)

const testIssuer = "auth-test"

func newTokenService(t *testing.T) *TokenService {
	t.Helper()

	pemKey, err := jwtx.GenerateEd25519PEM()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.Add(signer.KID(), signer.Public())

	return &TokenService{
		Signer:     signer,
		Verifier:   jwtx.NewVerifierEdDSA(keys, testIssuer),
		Issuer:     testIssuer,
		AccessTTL:  DefaultAccessTokenTTL,
		RefreshTTL: DefaultRefreshTokenTTL,
	}
}

func testAccount() domain.Account {
	return domain.Account{ID: "nick", DisplayName: "Nick", PINReference: "7347", Premium: true}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)

	before := time.Now()
	pair, refreshJTI, err := svc.Issue(testAccount(), "sess-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEmpty(t, refreshJTI)
	require.Equal(t, DefaultAccessTokenTTL, pair.ExpiresIn)

	claims, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "nick", claims.Subject)
	require.Equal(t, "sess-1", claims.SID)
	require.Equal(t, "Nick", claims.DisplayName)
	require.Equal(t, jwtx.TokenUseAccess, claims.TokenUse)

	// exp sits exactly one access TTL past issue time.
	require.Equal(t, claims.IssuedAt.Add(DefaultAccessTokenTTL), claims.ExpiresAt.Time)
	require.WithinDuration(t, before.Add(DefaultAccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestRotateMintsNewPair(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)

	pair, refreshJTI, err := svc.Issue(testAccount(), "sess-1")
	require.NoError(t, err)

	rot, err := svc.Rotate(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "nick", rot.AccountID)
	require.Equal(t, "sess-1", rot.SessionID)
	require.Equal(t, refreshJTI, rot.PresentedID)
	require.NotEqual(t, refreshJTI, rot.NextID)
	require.NotEqual(t, pair.RefreshToken, rot.Pair.RefreshToken)

	// The new access token verifies, carries the session id, and expires
	// one access TTL after rotation.
	claims, err := svc.VerifyAccess(rot.Pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "sess-1", claims.SID)
	require.Equal(t, claims.IssuedAt.Add(DefaultAccessTokenTTL), claims.ExpiresAt.Time)
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)
	svc.Now = func() time.Time { return time.Now().Add(-2 * DefaultAccessTokenTTL) }

	pair, _, err := svc.Issue(testAccount(), "sess-1")
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyGarbageToken(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)

	for _, tok := range []string{"", "garbage", "aaa.bbb.ccc"} {
		_, err := svc.VerifyAccess(tok)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)

		_, err = svc.Rotate(tok)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)

	pair, _, err := svc.Issue(testAccount(), "sess-1")
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-4] + "AAAA"
	_, err = svc.VerifyAccess(tampered)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenUseMismatch(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)

	pair, _, err := svc.Issue(testAccount(), "sess-1")
	require.NoError(t, err)

	// A refresh token is not a valid access token and vice versa, even
	// though both carry valid signatures.
	_, err = svc.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenMalformed)

	_, err = svc.Rotate(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyWrongIssuer(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)
	other := newTokenService(t)
	other.Issuer = "someone-else"

	pair, _, err := other.Issue(testAccount(), "sess-1")
	require.NoError(t, err)

	// Different service, different signing key, so this fails on the
	// signature before the issuer is even looked at.
	_, err = svc.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenMalformed)
}
