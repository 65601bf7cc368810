package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Damatnic/astral-planner-sub006/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "astral-auth"

func newTestSigner(t *testing.T) (*jwtx.EdDSASigner, *jwtx.EdDSAVerifier) {
	t.Helper()

	pemKey, err := jwtx.GenerateEd25519PEM()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key-001", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.Add(signer.KID(), signer.Public())

	return signer, jwtx.NewVerifierEdDSA(keys, testIssuer)
}

func TestSignVerifyRoundtrip(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestSigner(t)

	now := time.Now().UTC()
	claims := jwtx.NewClaims("demo-user", "sid-1", "jti-1", jwtx.TokenUseAccess, "Demo Explorer", testIssuer, time.Hour, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "demo-user", got.Subject)
	require.Equal(t, "sid-1", got.SID)
	require.Equal(t, jwtx.TokenUseAccess, got.TokenUse)
	require.Equal(t, "Demo Explorer", got.DisplayName)
	require.WithinDuration(t, now.Add(time.Hour), got.ExpiresAt.Time, time.Second)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestSigner(t)

	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwtx.NewClaims("demo-user", "sid-1", "jti-1", jwtx.TokenUseAccess, "", testIssuer, time.Hour, past)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	_, verifier := newTestSigner(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("tampered payload", func(t *testing.T) {
		signer, _ := newTestSigner(t)
		claims := jwtx.NewClaims("demo-user", "sid-1", "jti-1", jwtx.TokenUseAccess, "", testIssuer, time.Hour, time.Now().UTC())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		parts[1] = "eyJzdWIiOiJzb21lb25lLWVsc2UifQ"

		_, err = verifier.Verify(strings.Join(parts, "."))
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("unknown key", func(t *testing.T) {
		other, _ := newTestSigner(t)
		claims := jwtx.NewClaims("demo-user", "sid-1", "jti-1", jwtx.TokenUseAccess, "", testIssuer, time.Hour, time.Now().UTC())
		token, err := other.Sign(claims)
		require.NoError(t, err)

		// Signed with a key the verifier never saw. Same kid, different key.
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestVerifyIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestSigner(t)

	claims := jwtx.NewClaims("demo-user", "sid-1", "jti-1", jwtx.TokenUseAccess, "", "someone-else", time.Hour, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}
