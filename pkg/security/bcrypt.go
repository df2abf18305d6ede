package security

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptPrefix marks hashes whose input was run through SHA-256 first.
// bcrypt stops reading at 72 bytes, the digest always fits.
const bcryptPrefix = "bcrypt_sha256$"

type BcryptHash struct {
	Cost int
}

var _ Hasher = (*BcryptHash)(nil)

func NewBcrypt() *BcryptHash {
	return &BcryptHash{Cost: bcrypt.DefaultCost}
}

func (b *BcryptHash) Hash(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword(preHash(p), b.Cost)
	if err != nil {
		return "", err
	}

	return bcryptPrefix + string(h), nil
}

func (b *BcryptHash) Verify(p, encoded string) (bool, error) {
	return verify(p, encoded)
}

func preHash(p string) []byte {
	sum := sha256.Sum256([]byte(p))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func verifyBcrypt(p []byte, e string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(e), p)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}
