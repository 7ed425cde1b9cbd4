package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with configured cost.
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

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// dummyPassword is hashed once per service so unknown accounts can be
// compared against something that never matches.
const dummyPassword = "dummy-password"

// NewDummyHash hashes a fixed password at cost. Comparing against it costs
// the same as comparing against a real hash of that cost.
func NewDummyHash(cost int) (string, error) {
	return HashPassword(dummyPassword, cost)
}
