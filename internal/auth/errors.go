package auth

import "errors"

var (
	// ErrTokenExpired indicates the token's expiration claim has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed indicates a structurally broken token or a signature
	// that does not verify against the configured secret.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenInvalid covers any decode failure not classified above.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrMissingSubject indicates the decoded payload carries no usable sub claim.
	ErrMissingSubject = errors.New("token missing sub claim")

	// ErrUserNotFound indicates the token subject has no matching user record.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAdmin indicates the resolved user lacks the admin capability.
	ErrNotAdmin = errors.New("user is not admin")
)
