package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testSecret, 0, nil)
	tok, exp, err := tm.GenerateToken("acc-123", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := tm.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, SessionTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	id := claims.Identity()
	assert.Equal(t, "acc-123", id.AccountID)
	assert.Equal(t, "ada@example.com", id.Email)
}

func TestParseToken_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tm := NewTokenManager(testSecret, SessionTTL, clock.Now)

	tok, exp, err := tm.GenerateToken("acc-1", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), exp)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{name: "at issuance", at: clock.t, valid: true},
		{name: "six days later", at: clock.t.Add(6 * 24 * time.Hour), valid: true},
		{name: "one second before expiry", at: exp.Add(-time.Second), valid: true},
		{name: "at expiry", at: exp, valid: false},
		{name: "after expiry", at: exp.Add(time.Hour), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewTokenManager(testSecret, SessionTTL, func() time.Time { return tt.at })
			_, err := verifier.ParseToken(tok)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewTokenManager("right-secret", 0, nil).GenerateToken("acc-2", "b@example.com")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", 0, nil).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testSecret, 0, nil)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := tm.ParseToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		UserID: "acc-3",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, 0, nil).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err = jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, 0, nil).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RequiresExpiryAndSubject(t *testing.T) {
	t.Parallel()

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "acc-4"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = NewTokenManager(testSecret, 0, nil).ParseToken(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = NewTokenManager(testSecret, 0, nil).ParseToken(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
