package auth

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"botbridge-backend/internal/logger"
	"botbridge-backend/internal/store"
)

type memUsers struct {
	users map[string]*store.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*store.User)}
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*store.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *memUsers) Create(_ context.Context, u *store.User) error {
	u.ID = primitive.NewObjectID()
	m.users[u.Email] = u
	return nil
}

func newTestService(users UserStore) *Service {
	return NewService(users, logger.NewNop(), []byte("test-secret"), "botbridge", "botbridge-client")
}

func TestRegister(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users)

	result, err := svc.Register(context.Background(), "alice@example.com", "hunter22", "")
	require.NoError(t, err)
	assert.True(t, result.Result)
	assert.Equal(t, "User registered successfully", result.Message)

	stored := users.users["alice@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "user", stored.Role)
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newMemUsers())

	_, err := svc.Register(context.Background(), "alice@example.com", "hunter22", "")
	require.NoError(t, err)

	result, err := svc.Register(context.Background(), "alice@example.com", "other", "")
	require.NoError(t, err)
	assert.False(t, result.Result)
	assert.Equal(t, "User already exists with this email.", result.Message)
}

func TestLogin(t *testing.T) {
	svc := newTestService(newMemUsers())
	_, err := svc.Register(context.Background(), "alice@example.com", "hunter22", "admin")
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.Expiration, time.Minute)

	raw, err := base64.StdEncoding.DecodeString(resp.RefreshToken)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.NotEmpty(t, claims.Subject)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestService(newMemUsers())
	_, err := svc.Register(context.Background(), "alice@example.com", "hunter22", "")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignToken(t *testing.T) {
	svc := newTestService(newMemUsers())
	_, err := svc.Register(context.Background(), "alice@example.com", "hunter22", "")
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)

	// Same claims, different secret.
	other := NewService(newMemUsers(), logger.NewNop(), []byte("other-secret"), "botbridge", "botbridge-client")
	_, err = other.ValidateToken(resp.Token)
	assert.Error(t, err)

	// Same secret, different issuer.
	badIssuer := NewService(newMemUsers(), logger.NewNop(), []byte("test-secret"), "someone-else", "botbridge-client")
	_, err = badIssuer.ValidateToken(resp.Token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
