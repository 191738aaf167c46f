package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFailsFastWithoutAPIKey(t *testing.T) {
	t.Setenv("BIBLE_API_KEY", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BIBLE_API_KEY", "abc123")
	for _, key := range []string{"PORT", "BIBLE_API_BASE_URL", "FALLBACK_AUDIO_URL"} {
		t.Setenv(key, "") // register restore
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "https://api.scripture.api.bible/v1", cfg.BibleAPIBaseURL)
	assert.Equal(t, DefaultFallbackAudioURL, cfg.FallbackAudioURL)
	assert.Equal(t, "abc123", cfg.BibleAPIKey)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("BIBLE_API_KEY", "abc123")
	t.Setenv("PORT", "8081")
	t.Setenv("FALLBACK_AUDIO_URL", "https://cdn.example.com/quiet.mp3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "https://cdn.example.com/quiet.mp3", cfg.FallbackAudioURL)
}
