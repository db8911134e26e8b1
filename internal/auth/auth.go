package auth

import (
	"context"
	"crypto/hmac"
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davrenn/flowdraft/internal/store"
	"github.com/davrenn/flowdraft/pkg/schema"
)

const (
	pbkdf2Iterations = 120_000
	keyLength        = 32
	saltLength       = 16

	// DefaultSessionTTL is how long a login session stays valid.
	DefaultSessionTTL = 24 * time.Hour
)

// Manager handles registration, login and session verification on top of
// the store.
type Manager struct {
	store      store.Store
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewManager creates a Manager. A zero ttl selects DefaultSessionTTL.
func NewManager(s store.Store, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &Manager{store: s, sessionTTL: ttl, logger: logger}
}

// Register creates a new account with a freshly salted password hash.
func (m *Manager) Register(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, schema.NewError(schema.ErrCodeValidation,
			"username must be non-empty and password at least 8 characters")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "generate salt").WithCause(err)
	}
	hash, err := hashPassword(password, salt)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "hash password").WithCause(err)
	}

	u := &store.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := m.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "user registered", slog.String("username", username))
	return u, nil
}

// Login verifies credentials and issues a session token.
func (m *Manager) Login(ctx context.Context, username, password string) (*store.Session, error) {
	u, err := m.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, schema.NewError(schema.ErrCodeUnauthorized, "invalid username or password")
	}

	hash, err := hashPassword(password, u.Salt)
	if err != nil || !hmac.Equal(hash, u.PasswordHash) {
		return nil, schema.NewError(schema.ErrCodeUnauthorized, "invalid username or password")
	}

	now := time.Now().UTC()
	sess := &store.Session{
		Token:     newToken(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.sessionTTL),
	}
	if err := m.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "user logged in", slog.String("username", u.Username))
	return sess, nil
}

// Logout removes a session token. Unknown tokens are not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	return m.store.DeleteSession(ctx, token)
}

// Verify resolves a session token to its user, rejecting expired sessions.
func (m *Manager) Verify(ctx context.Context, token string) (*store.User, error) {
	sess, err := m.store.GetSession(ctx, token)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeUnauthorized, "invalid session")
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = m.store.DeleteSession(ctx, token)
		return nil, schema.NewError(schema.ErrCodeUnauthorized, "session expired")
	}
	return m.store.GetUser(ctx, sess.UserID)
}

func hashPassword(password string, salt []byte) ([]byte, error) {
	return pbkdf2.Key(sha256.New, password, salt, pbkdf2Iterations, keyLength)
}

func newToken() string {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		// rand.Read failing means the platform RNG is broken; fall back to a UUID.
		return uuid.New().String()
	}
	return hex.EncodeToString(raw)
}
