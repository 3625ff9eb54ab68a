package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	redismock "github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogadmin/pkg/errors"
)

func TestStores(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yaml")),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Get(ctx, "token")
			assert.ErrorIs(t, err, ErrNoSession)

			require.NoError(t, store.Set(ctx, "token", "abc"))
			got, err := store.Get(ctx, "token")
			require.NoError(t, err)
			assert.Equal(t, "abc", got)

			require.NoError(t, store.Delete(ctx, "token"))
			_, err = store.Get(ctx, "token")
			assert.ErrorIs(t, err, ErrNoSession)
			assert.Equal(t, name, store.Name())
		})
	}
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogadmin", "session.yaml")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "token", "abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "token: abc")

	require.NoError(t, store.Delete(ctx, "token"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting again is not an error
	assert.NoError(t, store.Delete(ctx, "token"))
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("values: [unclosed"), 0o600))

	_, err := NewFileStore(path).Get(context.Background(), "token")
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestRedisStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := newRedisStore(db, time.Hour)
	ctx := context.Background()
	key := "catalogadmin:session:token"

	mock.ExpectSet(key, "abc", time.Hour).SetVal("OK")
	require.NoError(t, store.Set(ctx, "token", "abc"))

	mock.ExpectGet(key).SetVal("abc")
	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, store.Delete(ctx, "token"))

	mock.ExpectGet(key).RedisNil()
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNoSession)

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	_, err = store.Get(ctx, "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_DefaultTTL(t *testing.T) {
	db, _ := redismock.NewClientMock()
	store := newRedisStore(db, 0)
	assert.Equal(t, 8*time.Hour, store.ttl)
	assert.Equal(t, "redis", store.Name())
}

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "token", "persisted"))

	s := New(store)
	assert.False(t, s.Authenticated())
	require.NoError(t, s.Init(ctx))
	assert.Equal(t, "persisted", s.Token())

	require.NoError(t, s.Set(ctx, "fresh"))
	stored, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "fresh", stored)
	assert.True(t, errors.IsValidationError(s.Set(ctx, "")))

	cleared := 0
	s.OnClear(func() { cleared++ })
	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Authenticated())
	assert.Equal(t, 1, cleared)
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSession_InitEmptyStore(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Init(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Equal(t, "memory", s.Store().Name())
}

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestCheck(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		state   State
		summary string
	}{
		{"missing", "", StateMissing, "Not logged in"},
		{"opaque", "not-a-jwt", StateActive, "Logged in (opaque token)"},
		{
			"active",
			signed(t, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}),
			StateActive,
			"Logged in as admin (expires in 1h0m0s)",
		},
		{
			"expired",
			signed(t, jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}),
			StateExpired,
			"Session expired 1m0s ago",
		},
		{"no expiry", signed(t, jwt.RegisteredClaims{}), StateActive, "Logged in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Check(tt.token, now)
			assert.Equal(t, tt.state, st.State)
			assert.Equal(t, tt.summary, st.Summary)
		})
	}
}
