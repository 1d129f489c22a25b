package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
)

func testSession() models.Session {
	return models.Session{
		ID:       "user-1",
		Name:     "Jane Smith",
		Email:    "student@example.com",
		Role:     models.RoleStudent,
		Approved: true,
	}
}

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"

	tests := []struct {
		name    string
		ttl     time.Duration
		session models.Session
	}{
		{
			name:    "admin session with ttl",
			ttl:     15 * time.Minute,
			session: models.Session{ID: "a-1", Name: "Admin User", Email: "admin@example.com", Role: models.RoleAdmin, Approved: true},
		},
		{
			name:    "student session without expiry",
			ttl:     0,
			session: testSession(),
		},
		{
			name:    "unapproved teacher",
			ttl:     time.Hour,
			session: models.Session{ID: "t-1", Name: "John Doe", Email: "teacher@example.com", Role: models.RoleTeacher},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maker := NewJWTMaker(secretKey, tt.ttl)
			token, err := maker.GenerateToken(tt.session)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.True(t, claims.Matches(tt.session))
			assert.Equal(t, tt.session.ID, claims.Subject)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			if tt.ttl == 0 {
				assert.Nil(t, claims.ExpiresAt)
			} else {
				assert.WithinDuration(t, time.Now().Add(tt.ttl), claims.ExpiresAt.Time, time.Second)
			}
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)

	validToken, err := maker.GenerateToken(testSession())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: createExpiredToken(t, secretKey)},
		{name: "wrong secret key", token: createTokenWithWrongSecret(t)},
		{name: "tampered token", token: validToken + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestSessionClaims_Matches(t *testing.T) {
	maker := NewJWTMaker("secret", 0)
	session := testSession()
	token, err := maker.GenerateToken(session)
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Matches(session))

	promoted := session
	promoted.Role = models.RoleAdmin
	assert.False(t, claims.Matches(promoted))

	other := session
	other.ID = "user-2"
	assert.False(t, claims.Matches(other))
}

func TestJWTMaker_TokenExpiration(t *testing.T) {
	maker := NewJWTMaker("test_secret_key", time.Minute)
	current := time.Now()
	maker.now = func() time.Time { return current }

	token, err := maker.GenerateToken(testSession())
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = maker.ParseToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func createExpiredToken(t *testing.T, secretKey string) string {
	maker := NewJWTMaker(secretKey, -time.Hour)
	token, err := maker.GenerateToken(testSession())
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	wrongMaker := NewJWTMaker("wrong_secret_key", 15*time.Minute)
	token, err := wrongMaker.GenerateToken(testSession())
	require.NoError(t, err)
	return token
}
