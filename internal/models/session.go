package models

// Credentials are sent to POST /v1/auth/login. The backend accepts either
// the username or the email alongside the password.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is the envelope returned by register, login and refresh.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Tokens returns the token pair carried by the response.
func (a *AuthResponse) Tokens() AuthTokens {
	return AuthTokens{
		AccessToken:  a.Token,
		RefreshToken: a.RefreshToken,
	}
}

// AuthTokens are always issued as a pair; both or neither are valid.
type AuthTokens struct {
	AccessToken  string `json:"token" yaml:"token"`
	RefreshToken string `json:"refresh_token" yaml:"refresh_token"`
}

func (t AuthTokens) IsComplete() bool {
	return len(t.AccessToken) > 0 && len(t.RefreshToken) > 0
}

// Session is a point in time copy of the client's authentication state.
type Session struct {
	CurrentUser  *User  `json:"user,omitempty"`
	AccessToken  string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (s Session) IsAuthenticated() bool {
	return len(s.AccessToken) > 0
}
