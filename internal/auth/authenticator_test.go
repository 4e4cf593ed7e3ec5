package auth

import (
	"context"
	"testing"
	"time"

	"devblog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticTokens(t *testing.T) {
	tokens, err := config.ParseTokens("mock-admin-token=admin:1:Admin,reader=user:100")
	require.NoError(t, err)
	a := NewStaticTokens(tokens)

	p, ok := a.Authenticate(context.Background(), "mock-admin-token")
	require.True(t, ok)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "1", p.UserID)

	p, ok = a.Authenticate(context.Background(), "reader")
	require.True(t, ok)
	assert.False(t, p.IsAdmin())
	assert.True(t, p.Owns("100"))
	assert.False(t, p.Owns("1"))

	_, ok = a.Authenticate(context.Background(), "nope")
	assert.False(t, ok)
}

func TestJWT_IssueAndVerify(t *testing.T) {
	j := NewJWT("secret", time.Minute)

	token, exp, err := j.Issue(Principal{UserID: "1", Name: "Admin", Role: RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	p, ok := j.Authenticate(context.Background(), token)
	require.True(t, ok)
	assert.Equal(t, "1", p.UserID)
	assert.True(t, p.IsAdmin())

	other := NewJWT("other-secret", time.Minute)
	_, ok = other.Authenticate(context.Background(), token)
	assert.False(t, ok, "чужая подпись не должна проходить")
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := j.Issue(Principal{UserID: "1", Role: RoleAdmin})
	require.NoError(t, err)

	j.now = time.Now
	_, ok := j.Authenticate(context.Background(), token)
	assert.False(t, ok)
}

func TestJWT_DisabledWithoutSecret(t *testing.T) {
	j := NewJWT("", time.Minute)
	_, _, err := j.Issue(Principal{UserID: "1"})
	assert.Error(t, err)
	_, ok := j.Authenticate(context.Background(), "anything")
	assert.False(t, ok)
}

func TestChain(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	token, _, err := j.Issue(Principal{UserID: "7", Role: RoleUser})
	require.NoError(t, err)

	chain := Chain{NewStaticTokens([]config.StaticToken{{Token: "static", Role: RoleAdmin, UserID: "1"}}), j}

	p, ok := chain.Authenticate(context.Background(), "static")
	require.True(t, ok)
	assert.Equal(t, "1", p.UserID)

	p, ok = chain.Authenticate(context.Background(), token)
	require.True(t, ok)
	assert.Equal(t, "7", p.UserID)

	_, ok = chain.Authenticate(context.Background(), "")
	assert.False(t, ok)
}

func TestAdminCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	creds := AdminCredentials{Email: "admin@devblog.io", PasswordHash: string(hash)}

	p, err := creds.Check("admin@devblog.io", "s3cret")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	_, err = creds.Check("admin@devblog.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = creds.Check("other@devblog.io", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = AdminCredentials{}.Check("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
