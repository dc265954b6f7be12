package config

import (
	"log"
	"os"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string
	JWTSecret string

	// Stream-compatible chat/video provider.
	StreamBaseURL   string
	StreamAPIKey    string
	StreamAPISecret string
}

func Load() *Config {
	return &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "codepair"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:        getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		StreamBaseURL:   getEnv("STREAM_BASE_URL", "https://chat.stream-io-api.com"),
		StreamAPIKey:    os.Getenv("STREAM_API_KEY"),
		StreamAPISecret: os.Getenv("STREAM_API_SECRET"),
	}
}

// LogSummary prints the non-secret parts of the config at startup.
func (c *Config) LogSummary() {
	log.Printf("Config:")
	log.Printf("  Mongo:  %s/%s", c.MongoURI, c.MongoDB)
	log.Printf("  Redis:  %s", c.RedisAddr)
	log.Printf("  Port:   %s", c.HTTPPort)
	if c.StreamAPIKey != "" && c.StreamAPISecret != "" {
		log.Println("  Stream: configured ✓")
	} else {
		log.Println("  Stream: API key/secret NOT SET")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
