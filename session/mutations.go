package session

import (
	"encoding/json"

	"github.com/jrsteele09/go-warehouse-client/internal/utils"
	"github.com/jrsteele09/go-warehouse-client/notifications"
	"github.com/jrsteele09/go-warehouse-client/storage"
	"github.com/jrsteele09/go-warehouse-client/token"
	"github.com/jrsteele09/go-warehouse-client/users"
)

// SetUser replaces the profile. nil removes the stored user.
func (s *Store) SetUser(u *users.Profile) {
	s.mu.Lock()
	s.setUserLocked(u)
	s.mu.Unlock()
	s.emit()
}

// SetToken replaces the session token. An empty token removes the stored one.
func (s *Store) SetToken(t string) {
	s.mu.Lock()
	s.setTokenLocked(t)
	s.mu.Unlock()
	s.emit()
}

// SetRoles replaces the role set. An empty set removes the stored roles.
func (s *Store) SetRoles(roles []string) {
	s.mu.Lock()
	s.setRolesLocked(roles)
	s.mu.Unlock()
	s.emit()
}

// ClearSession drops user, token and roles together and removes all three keys.
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.setUserLocked(nil)
	s.setTokenLocked("")
	s.setRolesLocked(nil)
	s.mu.Unlock()
	s.emit()
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.emit()
}

// AddNotification queues n without scheduling its removal.
func (s *Store) AddNotification(n notifications.Notification) notifications.Notification {
	return s.notes.Add(n)
}

func (s *Store) RemoveNotification(id int64) bool {
	return s.notes.Remove(id)
}

// ShowNotification queues n and removes it once its duration elapses. It returns the id.
func (s *Store) ShowNotification(n notifications.Notification) int64 {
	n = s.notes.Show(n)
	s.metrics.RecordNotification(string(n.Type))
	return n.ID
}

// commitSession sets user, roles and token under one lock.
func (s *Store) commitSession(u *users.Profile, roles []string, tok string) {
	s.mu.Lock()
	s.setUserLocked(u)
	s.setRolesLocked(roles)
	s.setTokenLocked(tok)
	s.mu.Unlock()
	s.emit()
}

// commitProfile sets user and roles, but only while the session still holds tok.
func (s *Store) commitProfile(u *users.Profile, tok string) bool {
	s.mu.Lock()
	if s.token != tok {
		s.mu.Unlock()
		return false
	}
	roles := u.Roles()
	if len(roles) == 0 {
		roles = token.RolesOf(tok).Roles
	}
	s.setUserLocked(u)
	s.setRolesLocked(roles)
	s.mu.Unlock()
	s.emit()
	return true
}

func (s *Store) setUserLocked(u *users.Profile) {
	s.user = cloneProfile(u)
	if u == nil {
		s.remove(storage.KeyUser)
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		s.log.Warn().Err(err).Str("key", storage.KeyUser).Msg("cannot encode value for durable storage")
		return
	}
	s.persist(storage.KeyUser, string(data))
}

func (s *Store) setTokenLocked(t string) {
	s.token = t
	if t == "" {
		s.remove(storage.KeyToken)
		return
	}
	s.persist(storage.KeyToken, t)
}

func (s *Store) setRolesLocked(roles []string) {
	s.roles = utils.Clone(roles)
	if len(roles) == 0 {
		s.remove(storage.KeyRoles)
		return
	}
	data, err := json.Marshal(roles)
	if err != nil {
		s.log.Warn().Err(err).Str("key", storage.KeyRoles).Msg("cannot encode value for durable storage")
		return
	}
	s.persist(storage.KeyRoles, string(data))
}

// persist and remove never fail the mutation: memory stays authoritative.
func (s *Store) persist(key, value string) {
	if err := s.storage.Set(key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("durable storage write failed")
		s.metrics.RecordStorageFailure("set")
	}
}

func (s *Store) remove(key string) {
	if err := s.storage.Remove(key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("durable storage remove failed")
		s.metrics.RecordStorageFailure("remove")
	}
}
