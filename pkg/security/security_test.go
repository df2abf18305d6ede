package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func cheapArgon() *ArgonHash {
	return &ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestArgonHash(t *testing.T) {
	a := cheapArgon()

	hash, err := a.Hash("testpass123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, hash, "testpass123")

	ok, err := a.Verify("testpass123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := a.Hash("testpass123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ between hashes")
}

func TestBcryptHash(t *testing.T) {
	b := &BcryptHash{Cost: 4}

	hash, err := b.Hash("pass1234")
	require.NoError(t, err)

	ok, err := b.Verify("pass1234", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Verify("pass12345", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, strings.HasPrefix(hash, "bcrypt_sha256$$2a$04$"))
}

func TestBcryptHashLongPassword(t *testing.T) {
	b := &BcryptHash{Cost: 4}

	long := strings.Repeat("a", 100)
	hash, err := b.Hash(long)
	require.NoError(t, err)

	ok, err := b.Verify(long, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	// differs only past byte 72
	ok, err = b.Verify(strings.Repeat("a", 99)+"b", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPlainBcrypt(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("pass1234"), 4)
	require.NoError(t, err)

	ok, err := NewBcrypt().Verify("pass1234", string(h))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyAcrossHashers(t *testing.T) {
	argonHash, err := cheapArgon().Hash("pass1234")
	require.NoError(t, err)

	ok, err := (&BcryptHash{Cost: 4}).Verify("pass1234", argonHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = cheapArgon().Verify("pass1234", "plaintext")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = cheapArgon().Verify("pass1234", "$argon2id$broken")
	assert.Error(t, err)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("")
	require.NoError(t, err)
	assert.IsType(t, &ArgonHash{}, h)

	h, err = NewHasher("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, &BcryptHash{}, h)

	_, err = NewHasher("md5")
	assert.Error(t, err)
}

func TestTokenIssuer(t *testing.T) {
	i := NewTokenIssuer("super-secret", time.Hour)

	tok, exp, err := i.Sign("user-1", "key-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := i.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "key-1", claims.ID)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	i := NewTokenIssuer("right-secret", time.Hour)

	tok, _, err := i.Sign("user-1", "key-1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong-secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired, _, err := NewTokenIssuer("right-secret", -time.Minute).Sign("user-1", "key-1")
	require.NoError(t, err)
	_, err = i.Parse(expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = i.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
