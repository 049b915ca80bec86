package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes an account password. Costs outside
// bcrypt's supported range (a zero-value or typo'd AUTH_BCRYPT_COST)
// fall back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a login attempt against the stored hash.
// A non-nil error means the credentials do not match.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
