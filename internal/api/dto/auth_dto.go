package dto

// AuthenticateRequest is the credential payload for POST /api/authenticate.
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly minted token.
type TokenResponse struct {
	JWT string `json:"jwt"`
}

// AuthorizeRequest is the token payload for POST /api/authorize.
type AuthorizeRequest struct {
	JWT string `json:"jwt"`
}

// AuthorizationResponse is the authorize operation's result.
type AuthorizationResponse struct {
	SubjectID     string `json:"subjectId"`
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
}
