package user

import "context"

// Repository is the persistence boundary for user identities. Credential
// verification happens behind it: callers hand over the plaintext secret and
// only ever get back a row or ErrNotFound, never a comparable hash.
type Repository interface {
	// VerifyCredentials returns the user matching email whose password hash
	// matches password. Unknown email and wrong password are both ErrNotFound;
	// callers cannot tell the two apart.
	VerifyCredentials(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create hashes the password and inserts the row with
	// email_is_verified = false. Unique-constraint violations surface as
	// ErrDuplicate.
	Create(ctx context.Context, params CreateParams) (*User, error)
	// Activate consumes an activation token, marking the owning account's
	// email as verified. ErrNotFound if no row holds the token.
	Activate(ctx context.Context, token string) error
}
