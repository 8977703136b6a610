package services

import (
	"golang.org/x/crypto/bcrypt"
)

// hashPassword returns a salted bcrypt hash of the plaintext.
func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// verifyPassword reports whether plain matches the stored hash. A malformed
// stored hash is a verification failure, not a fault.
func verifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
