// Package session holds the client-side authentication state of the warehouse
// application: the signed-in user, the session token, its roles and the queue
// of notifications. State changes only through Store methods, every change is
// mirrored into a storage.Repo, and subscribers are told about it afterwards.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jrsteele09/go-warehouse-client/api"
	"github.com/jrsteele09/go-warehouse-client/internal/utils"
	"github.com/jrsteele09/go-warehouse-client/metrics"
	"github.com/jrsteele09/go-warehouse-client/notifications"
	"github.com/jrsteele09/go-warehouse-client/storage"
	"github.com/jrsteele09/go-warehouse-client/token"
	"github.com/jrsteele09/go-warehouse-client/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AuthAPI is the part of the warehouse API the store drives. *api.Client implements it.
type AuthAPI interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResponse, error)
	Logout(ctx context.Context) (*api.StatusResponse, error)
	CurrentUser(ctx context.Context) (*api.UserResponse, error)
}

var _ AuthAPI = (*api.Client)(nil)

// State is a point-in-time copy of the store.
type State struct {
	User          *users.Profile
	Token         string
	Roles         []string
	Notifications []notifications.Notification
	Loading       bool
}

type Store struct {
	mu      sync.RWMutex
	user    *users.Profile
	token   string
	roles   []string
	loading bool

	api     AuthAPI
	storage storage.Repo
	notes   *notifications.Center
	metrics *metrics.Collector
	log     zerolog.Logger

	notificationDuration time.Duration

	listenersMu  sync.Mutex
	listeners    map[int]func(State)
	nextListener int
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithMetrics records logins, logouts, notifications and storage failures in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Store) {
		s.metrics = c
	}
}

// WithNotificationDuration sets the lifetime of notifications that do not carry their own.
func WithNotificationDuration(d time.Duration) Option {
	return func(s *Store) {
		s.notificationDuration = d
	}
}

// New creates a Store and hydrates it from repo. Unreadable or malformed stored
// values are logged and ignored.
func New(authAPI AuthAPI, repo storage.Repo, opts ...Option) *Store {
	s := &Store{
		api:       authAPI,
		storage:   repo,
		roles:     []string{},
		log:       log.Logger,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.notes = notifications.NewCenter(s.notificationDuration)
	s.notes.OnChange(s.emit)
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	tok, ok := s.load(storage.KeyToken)
	if !ok || tok == "" {
		return
	}
	s.token = tok

	if raw, ok := s.load(storage.KeyRoles); ok {
		var roles []string
		if err := json.Unmarshal([]byte(raw), &roles); err != nil {
			s.log.Warn().Err(err).Str("key", storage.KeyRoles).Msg("discarding malformed stored value")
		} else if roles != nil {
			s.roles = roles
		}
	}

	if raw, ok := s.load(storage.KeyUser); ok {
		var u users.Profile
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.log.Warn().Err(err).Str("key", storage.KeyUser).Msg("discarding malformed stored value")
		} else if u != (users.Profile{}) {
			s.user = &u
		}
	}
}

func (s *Store) load(key string) (string, bool) {
	v, ok, err := s.storage.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("durable storage read failed")
		s.metrics.RecordStorageFailure("get")
		return "", false
	}
	return v, ok
}

// Close cancels pending notification timers and drops all subscribers.
func (s *Store) Close() {
	s.notes.Close()

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = make(map[int]func(State))
}

// Subscribe registers fn to receive a snapshot after every change. The returned
// function unregisters it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

// emit must not be called with s.mu held.
func (s *Store) emit() {
	s.listenersMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	if len(fns) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}

// Getters

func (s *Store) Snapshot() State {
	s.mu.RLock()
	st := State{
		User:    cloneProfile(s.user),
		Token:   s.token,
		Roles:   utils.Clone(s.roles),
		Loading: s.loading,
	}
	s.mu.RUnlock()

	st.Notifications = s.notes.List()
	return st
}

// IsAuthenticated is true while a token is held and it has not expired.
func (s *Store) IsAuthenticated() bool {
	tok := s.Token()
	return tok != "" && !token.IsExpired(tok)
}

func (s *Store) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Store) HasAnyRole(roles ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return utils.Intersects(roles, s.roles)
}

func (s *Store) TokenExpiration() (time.Time, bool) {
	return token.Expiration(s.Token())
}

// DisplayName is the signed-in account, or "Unknown User".
func (s *Store) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name := s.user.DisplayName(); name != "" {
		return name
	}
	return "Unknown User"
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return utils.Clone(s.roles)
}

func (s *Store) User() *users.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProfile(s.user)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Notifications() []notifications.Notification {
	return s.notes.List()
}

func cloneProfile(p *users.Profile) *users.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
