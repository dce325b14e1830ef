package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-warehouse-client/api"
)

const invalidCredentialsMessage = "Invalid account or password"

// LoginHandler verifies the account password and issues a session token
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		creds.Account = strings.TrimSpace(creds.Account)
		if err := ValidateCredentials(creds); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		account, err := s.accounts.GetByAccount(creds.Account)
		if err != nil || !account.CheckPassword(creds.Password) {
			// Don't reveal if the account exists or not
			s.metrics.RecordLogin(false)
			writeJSONError(w, invalidCredentialsMessage, http.StatusUnauthorized)
			return
		}

		if err := ValidateAccountState(account); err != nil {
			s.metrics.RecordLogin(false)
			writeJSON(w, http.StatusOK, api.LoginResponse{
				Envelope: api.Envelope{Success: false, Error: "Account is blocked. Contact support."},
			})
			return
		}

		profile := account.Profile
		token, err := s.tokens.CreateAccessToken(&profile)
		if err != nil {
			s.log.Err(err).Str("account", creds.Account).Msg("failed to create access token")
			writeJSONError(w, "Failed to create token", http.StatusInternalServerError)
			return
		}

		s.metrics.RecordLogin(true)
		s.log.Info().Str("account", profile.Account).Str("role", profile.RoleName).Msg("login")
		writeJSON(w, http.StatusOK, api.LoginResponse{
			Envelope: api.Envelope{Success: true, Message: "Login successful"},
			Data:     &profile,
			Token:    token,
		})
	}
}

// LogoutHandler acknowledges the end of a session. Tokens are stateless and
// simply expire.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ti, ok := introspectionFromContext(r); ok {
			s.log.Info().Str("account", ti.Account).Str("jti", ti.JTI).Msg("logout")
		}
		s.metrics.RecordLogout()
		writeJSON(w, http.StatusOK, api.StatusResponse{
			Envelope: api.Envelope{Success: true, Message: "Logged out"},
		})
	}
}

// CurrentUserHandler returns the profile of the token's account
func (s *Server) CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ti, ok := introspectionFromContext(r)
		if !ok {
			writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		account, err := s.accounts.GetByID(ti.UserID)
		if err != nil {
			s.metrics.RecordCurrentUser(false)
			writeJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		if err := ValidateAccountState(account); err != nil {
			s.metrics.RecordCurrentUser(false)
			writeJSONError(w, "Account is blocked", http.StatusForbidden)
			return
		}

		s.metrics.RecordCurrentUser(true)
		profile := account.Profile
		writeJSON(w, http.StatusOK, api.UserResponse{
			Envelope: api.Envelope{Success: true},
			Data:     &profile,
		})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.StatusResponse{Envelope: api.Envelope{Success: true, Message: "ok"}})
	}
}
