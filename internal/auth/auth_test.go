package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "abc", true},
		{"long but no complexity", "abcdefgh", true},
		{"missing symbol", "Abcdefg1", true},
		{"missing digit", "Abcdefg!", true},
		{"missing upper", "abcdef1!", true},
		{"valid", "Abcdef1!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a@b.co"))
	assert.True(t, ValidateEmail("user.name+tag@example.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail("spaces in@local.part"))
	assert.False(t, ValidateEmail(""))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", hash)

	assert.True(t, CheckPassword(hash, "Abcdef1!"))
	assert.False(t, CheckPassword(hash, "Abcdef1?"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", 42, "admin")
	require.NoError(t, err)

	claims, err := ValidateToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	// Session lifetime is 30 days.
	assert.WithinDuration(t,
		time.Now().Add(TokenTTL),
		claims.ExpiresAt.Time,
		time.Minute)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("test-secret", 42, "user")
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ValidateToken("test-secret", "not.a.token")
	assert.Error(t, err)
}
