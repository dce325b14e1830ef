package config

import "path/filepath"

const (
	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"
)

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetStorageBackend() string {
	return GetEnv("STORAGE_BACKEND", StorageBackendFile)
}

// GetStateFile is the file the "file" backend persists token, roles and user into.
func (Storage) GetStateFile() string {
	return GetEnv("STATE_FILE", filepath.Join(EnvVars{}.GetDataFolder(), "session.json"))
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Storage) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "warehouse:session")
}
