package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the longest secret bcrypt accepts
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for secrets over MaxPasswordBytes
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
