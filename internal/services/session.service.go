package services

import (
	"context"
	"time"

	"bakimtrack/config"
	"bakimtrack/internal/apperrors"
	"bakimtrack/internal/database"
	"bakimtrack/internal/logger"
	. "bakimtrack/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SESSION_CACHE_PREFIX = "session:"

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type sessionRecord struct {
	UserID uuid.UUID `json:"userId"`
	Role   Role      `json:"role"`
}

// SessionService issues and validates signed session tokens. A token is
// only accepted while its session record still exists in the cache, so
// logout revokes immediately regardless of the JWT expiry.
type SessionService struct {
	cache  database.CacheClient
	secret []byte
	ttl    time.Duration
	log    logger.Logger
}

func NewSessionService(db database.DB, config config.Config) *SessionService {
	return &SessionService{
		cache:  db.Cache.Session,
		secret: []byte(config.JWTSecret),
		ttl:    time.Duration(config.SessionTTLHours) * time.Hour,
		log:    logger.New("sessionService"),
	}
}

// Create issues a token for the user and stores the session record.
func (s *SessionService) Create(ctx context.Context, user *User) (string, error) {
	log := s.log.Function("Create")

	sessionID := uuid.NewString()
	now := time.Now()

	claims := sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign session token", err, "userID", user.ID)
	}

	record := sessionRecord{UserID: user.ID, Role: user.Role}
	if err := database.NewCacheBuilder(s.cache, SESSION_CACHE_PREFIX+sessionID).
		WithStruct(record).
		WithTTL(s.ttl).
		WithContext(ctx).
		Set(); err != nil {
		return "", log.Err("failed to store session", err, "userID", user.ID)
	}

	return token, nil
}

// Validate parses and verifies a token and returns the principal it was
// issued to.
func (s *SessionService) Validate(ctx context.Context, token string) (Principal, error) {
	log := s.log.Function("Validate")

	claims, err := s.parseClaims(token)
	if err != nil {
		return Principal{}, log.ErrorWithType(apperrors.ErrUnauthenticated,
			"invalid session token")
	}

	var record sessionRecord
	found, err := database.NewCacheBuilder(s.cache, SESSION_CACHE_PREFIX+claims.ID).
		WithContext(ctx).
		Get(&record)
	if err != nil {
		return Principal{}, log.ErrorWithType(apperrors.ErrStoreUnavailable,
			"failed to read session", "error", err)
	}
	if !found {
		return Principal{}, log.ErrorWithType(apperrors.ErrUnauthenticated,
			"session expired or revoked")
	}

	return Principal{UserID: record.UserID, Role: record.Role}, nil
}

// Destroy revokes the session behind the token. An already-invalid token
// is not an error; logout is idempotent.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	log := s.log.Function("Destroy")

	claims, err := s.parseClaims(token)
	if err != nil {
		return nil
	}

	if err := database.NewCacheBuilder(s.cache, SESSION_CACHE_PREFIX+claims.ID).
		WithContext(ctx).
		Delete(); err != nil {
		return log.Err("failed to delete session", err, "sessionID", claims.ID)
	}

	return nil
}

func (s *SessionService) parseClaims(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, jwt.ErrTokenInvalidSubject
	}

	return claims, nil
}
