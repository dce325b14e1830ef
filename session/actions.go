package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-warehouse-client/api"
	"github.com/jrsteele09/go-warehouse-client/notifications"
	"github.com/jrsteele09/go-warehouse-client/token"
	"github.com/jrsteele09/go-warehouse-client/users"
)

const loginFailedMessage = "Login failed"

// Login authenticates creds against the API. On success user, roles and token are
// committed together and a welcome notification is shown. On failure exactly one
// error notification is shown, the error is returned and the session is untouched.
func (s *Store) Login(ctx context.Context, creds api.Credentials) (*users.Profile, error) {
	s.SetLoading(true)
	defer s.SetLoading(false)

	profile, roles, tok, err := s.authenticate(ctx, creds)
	if err != nil {
		s.metrics.RecordLogin(false)
		s.log.Warn().Err(err).Str("account", creds.Account).Msg("login failed")
		s.ShowNotification(notifications.Notification{
			Type:    notifications.Error,
			Message: api.MessageOf(err, loginFailedMessage),
		})
		return nil, err
	}

	s.commitSession(profile, roles, tok)
	s.metrics.RecordLogin(true)
	s.log.Info().Str("account", profile.DisplayName()).Strs("roles", roles).Msg("logged in")
	s.ShowNotification(notifications.Notification{
		Type:    notifications.Success,
		Message: fmt.Sprintf("Welcome back, %s!", profile.DisplayName()),
	})
	return cloneProfile(profile), nil
}

func (s *Store) authenticate(ctx context.Context, creds api.Credentials) (*users.Profile, []string, string, error) {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, nil, "", err
	}
	if !resp.Success {
		return nil, nil, "", &AuthError{Kind: Rejected, Message: resp.ErrorMessage()}
	}

	tok := resp.SessionToken()
	if tok == "" {
		return nil, nil, "", &AuthError{Kind: NoToken}
	}

	profile := resp.Data
	if profile == nil {
		profile = &users.Profile{Account: creds.Account}
	}
	roles := profile.Roles()
	if len(roles) == 0 {
		roles = token.RolesOf(tok).Roles
	}
	return profile, roles, tok, nil
}

// Logout tells the API the session ends, then clears it whatever the API answered.
// Without a token there is nothing to end and no request is made.
func (s *Store) Logout(ctx context.Context) {
	s.logout(ctx, true)
}

func (s *Store) logout(ctx context.Context, notify bool) {
	hadSession := s.Token() != ""
	defer func() {
		s.ClearSession()
		s.metrics.RecordLogout()
	}()

	if !hadSession {
		return
	}
	if _, err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("logout request failed, clearing session anyway")
		return
	}
	if notify {
		s.ShowNotification(notifications.Notification{
			Type:    notifications.Success,
			Message: "Logged out",
		})
	}
}

// FetchCurrentUser refreshes the profile from the API. Without a live token it
// clears the session and makes no request. Any failure clears the session and
// yields nil.
func (s *Store) FetchCurrentUser(ctx context.Context) *users.Profile {
	tok := s.Token()
	if tok == "" || token.IsExpired(tok) {
		s.ClearSession()
		return nil
	}

	resp, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch current user")
		s.metrics.RecordCurrentUser(false)
		s.ClearSession()
		return nil
	}
	if !resp.Success || resp.Data == nil {
		s.log.Warn().Str("error", resp.ErrorMessage()).Msg("current user request unsuccessful")
		s.metrics.RecordCurrentUser(false)
		s.ClearSession()
		return nil
	}

	if !s.commitProfile(resp.Data, tok) {
		// the session changed while the request was in flight
		return nil
	}
	s.metrics.RecordCurrentUser(true)
	return cloneProfile(resp.Data)
}

// InitializeAuth runs once at startup. A stored live token is validated through
// FetchCurrentUser; anything else ends in Logout so the state is cleanly empty.
func (s *Store) InitializeAuth(ctx context.Context) *users.Profile {
	tok := s.Token()
	if tok != "" && !token.IsExpired(tok) {
		s.log.Debug().Msg("stored token found, fetching current user")
		return s.FetchCurrentUser(ctx)
	}
	s.log.Debug().Msg("no valid stored token")
	s.logout(ctx, false)
	return nil
}

// CheckTokenExpiration logs out an expired session, warning the user. It returns
// false only in that case.
func (s *Store) CheckTokenExpiration(ctx context.Context) bool {
	tok := s.Token()
	if tok != "" && token.IsExpired(tok) {
		s.ShowNotification(notifications.Notification{
			Type:    notifications.Warning,
			Message: "Your session has expired, please log in again",
		})
		s.logout(ctx, false)
		return false
	}
	return true
}
