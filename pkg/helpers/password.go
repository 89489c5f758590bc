package helpers

import "golang.org/x/crypto/bcrypt"

// bcryptCost mirrors bcrypt.DefaultCost; pinned so a library default bump
// does not silently change login latency.
const bcryptCost = 10

// HashPassword returns the bcrypt hash of a plain-text password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
