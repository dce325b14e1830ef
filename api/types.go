package api

import "github.com/jrsteele09/go-warehouse-client/users"

// Endpoint paths, relative to the client's base URL
const (
	PathLogin       = "/auth/login"
	PathLogout      = "/auth/logout"
	PathCurrentUser = "/auth/current-user"
)

type Credentials struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// Envelope is the part every backend response shares.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorMessage prefers the error field over message.
func (e Envelope) ErrorMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

type LoginResponse struct {
	Envelope
	Data        *users.Profile `json:"data,omitempty"`
	Token       string         `json:"token,omitempty"`
	AccessToken string         `json:"access_token,omitempty"`
}

// SessionToken returns token, falling back to access_token.
func (r *LoginResponse) SessionToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

type UserResponse struct {
	Envelope
	Data *users.Profile `json:"data,omitempty"`
}

type StatusResponse struct {
	Envelope
}
