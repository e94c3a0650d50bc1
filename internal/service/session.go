package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/flavorfind/backend/internal/storage"
	"github.com/pageza/flavorfind/backend/internal/types"
)

// SessionTTL is how long a session token stays valid.
const SessionTTL = 30 * 24 * time.Hour

const sessionIssuer = "flavorfind"

// SessionService issues session tokens and hands out the per-session stores.
// A session plays the role of one browser's local storage: its key and
// favorites live under the session's namespace in the shared backend.
type SessionService struct {
	secret []byte
	store  storage.Storage
	now    func() time.Time

	// one favorites lock per session, so toggles of a session are serialized
	locksMu sync.Mutex
	locks   map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu       sync.Mutex
	lastUsed time.Time
}

// NewSessionService creates a SessionService signing tokens with secret.
func NewSessionService(secret string, store storage.Storage) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		store:  store,
		now:    time.Now,
		locks:  make(map[uuid.UUID]*sessionLock),
	}
}

// Issue creates a new session and its signed token.
func (s *SessionService) Issue() (token string, sessionID uuid.UUID, err error) {
	sessionID = uuid.New()
	now := s.now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		SessionID: sessionID,
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, sessionID, nil
}

// ValidateToken parses and verifies a session token.
func (s *SessionService) ValidateToken(tokenString string) (*types.SessionClaims, error) {
	claims := &types.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == uuid.Nil {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Storage returns the storage namespace of a session.
func (s *SessionService) Storage(sessionID uuid.UUID) storage.Storage {
	return storage.Namespace(s.store, storage.SessionNamespace(sessionID.String()))
}

// Keys returns the API key store of a session.
func (s *SessionService) Keys(sessionID uuid.UUID) *KeyStore {
	return NewKeyStore(s.Storage(sessionID))
}

// Favorites returns the favorites store of a session.
func (s *SessionService) Favorites(sessionID uuid.UUID) *FavoriteStore {
	s.locksMu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.lastUsed = s.now()
	s.locksMu.Unlock()

	return NewFavoriteStore(s.Storage(sessionID), &lock.mu)
}

// Sweep drops the favorites locks of sessions idle for longer than
// SessionTTL. Their tokens have expired by then, so no request can ask for
// the lock again. Locks currently held are kept. Returns the number dropped.
func (s *SessionService) Sweep() int {
	cutoff := s.now().Add(-SessionTTL)

	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	dropped := 0
	for id, lock := range s.locks {
		if !lock.lastUsed.Before(cutoff) || !lock.mu.TryLock() {
			continue
		}
		delete(s.locks, id)
		lock.mu.Unlock()
		dropped++
	}
	return dropped
}
