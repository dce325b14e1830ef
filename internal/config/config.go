package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	ServerConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

// ClientConfig covers how the client reaches the warehouse API.
type ClientConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetNotificationDuration() time.Duration
}

type StorageConfig interface {
	GetStorageBackend() string
	GetStateFile() string
	GetRedisAddr() string
	GetRedisPrefix() string
}

// ServerConfig is only read by the development auth server.
type ServerConfig interface {
	GetJWTSecret() string
	GetTokenExpiry() time.Duration
	GetLoginRateLimit() float64
	GetLoginBurst() int
}

type mainConfig struct {
	EnvVars
	Client
	Storage
	Server
}

func New() Config {
	return mainConfig{}
}
