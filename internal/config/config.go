package config

import (
	"os"
	"time"
)

type Config struct {
	ServerAddress      string
	MongoURI           string
	MongoDB            string
	JWTSecret          string
	JWTExpiration      time.Duration
	GithubClientID     string
	GithubClientSecret string
}

func Load() *Config {
	return &Config{
		ServerAddress:      getEnv("SERVER_ADDRESS", ":9000"),
		MongoURI:           getEnv("MONGO_URI", ""),
		MongoDB:            getEnv("MONGO_DB", "devlink"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:      100 * time.Hour,
		GithubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
