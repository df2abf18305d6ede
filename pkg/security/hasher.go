// Package security contains everything related to the security of user data
package security

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidHash = errors.New("invalid hash format")

// Hasher turns plaintext passwords into encoded hashes and checks them.
// Verify accepts hashes produced by any Hasher in this package, so changing
// security.password_hasher doesn't lock out existing users.
type Hasher interface {
	Hash(p string) (encoded string, err error)
	Verify(p, encoded string) (ok bool, err error)
}

// NewHasher returns the hasher registered under name
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "argon2":
		return NewArgon(), nil
	case "bcrypt":
		return NewBcrypt(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

func verify(p, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return verifyArgon(p, encoded)
	case strings.HasPrefix(encoded, bcryptPrefix):
		return verifyBcrypt(preHash(p), strings.TrimPrefix(encoded, bcryptPrefix))
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return verifyBcrypt([]byte(p), encoded)
	default:
		return false, ErrInvalidHash
	}
}
