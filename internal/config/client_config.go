package config

import "time"

type Client struct{}

var _ ClientConfig = Client{}

// GetBaseURL returns the API root every endpoint path is appended to (e.g. "http://localhost:5000/api")
func (Client) GetBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:5000/api")
}

func (Client) GetRequestTimeout() time.Duration {
	return GetDurationEnv("API_TIMEOUT", 10*time.Second)
}

func (Client) GetNotificationDuration() time.Duration {
	return GetDurationEnv("NOTIFICATION_DURATION", 5*time.Second)
}
