// Package storage defines the durable key-value store the session is mirrored into,
// the equivalent of browser local storage.
package storage

// Keys written by the session store
const (
	KeyToken = "token" // raw token string
	KeyRoles = "roles" // JSON array of role names
	KeyUser  = "user"  // JSON encoded users.Profile
)

// Repo is a synchronous string key-value store. Get reports ok=false for a missing key.
type Repo interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
