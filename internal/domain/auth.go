package domain

// Credential carries the email/password pair supplied by a caller of the
// authenticate operation. It is ephemeral and never persisted.
type Credential struct {
	Email    string
	Password string
}

// AuthToken wraps a signed compact JWT string.
type AuthToken struct {
	JWT string
}

// Authorization is the outcome of verifying a token and resolving the
// subject's role. Produced fresh on every authorize call, never cached.
// Authenticated is only ever true when the token passed signature and
// expiry checks at the moment of the call.
type Authorization struct {
	SubjectID     string
	Authenticated bool
	Role          Role
}
