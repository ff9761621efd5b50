package services

import (
	"context"
	"testing"
	"time"

	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(secret string) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		ttl:    time.Hour,
		log:    logger.New("sessionService"),
	}
}

func mintToken(t *testing.T, secret string, method jwt.SigningMethod, claims sessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	service := newTestSessionService("test-secret")
	userID := uuid.Must(uuid.NewV7())
	now := time.Now()

	valid := sessionClaims{
		Role: string(RoleFieldStaff),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	t.Run("accepts a well formed token", func(t *testing.T) {
		token := mintToken(t, "test-secret", jwt.SigningMethodHS256, valid)

		claims, err := service.parseClaims(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, string(RoleFieldStaff), claims.Role)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token := mintToken(t, "other-secret", jwt.SigningMethodHS256, valid)

		_, err := service.parseClaims(token)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
		token := mintToken(t, "test-secret", jwt.SigningMethodHS256, expired)

		_, err := service.parseClaims(token)
		assert.Error(t, err)
	})

	t.Run("rejects a non uuid subject", func(t *testing.T) {
		bad := valid
		bad.Subject = "not-a-user-id"
		token := mintToken(t, "test-secret", jwt.SigningMethodHS256, bad)

		_, err := service.parseClaims(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.parseClaims("not.a.token")
		assert.Error(t, err)
	})
}

func TestDestroy_InvalidTokenIsIdempotent(t *testing.T) {
	service := newTestSessionService("test-secret")

	err := service.Destroy(context.Background(), "not.a.token")
	assert.NoError(t, err)
}
