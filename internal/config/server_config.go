package config

import "time"

type Server struct{}

var _ ServerConfig = Server{}

func (Server) GetJWTSecret() string {
	return GetEnv("JWT_SECRET_KEY", "jwt-secret-key-change-in-production")
}

func (Server) GetTokenExpiry() time.Duration {
	return GetDurationEnv("JWT_EXPIRY", 24*time.Hour)
}

// GetLoginRateLimit is the sustained number of login attempts per second allowed per account.
func (Server) GetLoginRateLimit() float64 {
	return GetFloatEnv("LOGIN_RATE_LIMIT", 1)
}

func (Server) GetLoginBurst() int {
	return GetIntEnv("LOGIN_BURST", 5)
}
