package domain

// Identity is the caller resolved from a verified session token.
type Identity struct {
	AccountID string
	Email     string
}
