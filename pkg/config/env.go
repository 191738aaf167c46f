// Env loader
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultFallbackAudioURL is the substitute track served when a chapter has
// no narration asset upstream.
const DefaultFallbackAudioURL = "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3"

var ErrMissingAPIKey = errors.New("BIBLE_API_KEY is not configured")

type Config struct {
	AppEnv           string
	Port             string
	BibleAPIKey      string
	BibleAPIBaseURL  string
	FallbackAudioURL string
	DataDir          string
}

// LoadConfig loads environment variables from the .env file and fails fast
// when the upstream API key is absent.
func LoadConfig() (*Config, error) {

	appEnv := os.Getenv("APP_ENV")

	switch appEnv {
	case "production":
		if err := godotenv.Load(".env.production"); err == nil {
			fmt.Println("Loaded .env.production")
		}
	default:
		if err := godotenv.Load(".env.development"); err == nil {
			fmt.Println("Loaded .env.development")
		}
	}

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "5000"),
		BibleAPIKey:      getEnv("BIBLE_API_KEY", ""),
		BibleAPIBaseURL:  getEnv("BIBLE_API_BASE_URL", "https://api.scripture.api.bible/v1"),
		FallbackAudioURL: getEnv("FALLBACK_AUDIO_URL", DefaultFallbackAudioURL),
		DataDir:          getEnv("DATA_DIR", "data"),
	}

	if cfg.BibleAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
