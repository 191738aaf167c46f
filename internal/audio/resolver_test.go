package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/internal/bibleapi"
)

const testFallbackURL = "https://cdn.example.com/fallback.mp3"

func newTestResolver(t *testing.T, handler http.Handler) (*Resolver, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client := bibleapi.NewClient(ts.URL, "test-key", zap.NewNop())
	return NewResolver(client, testFallbackURL, zap.NewNop()), ts
}

func audioBody(url string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"id":       "GEN.1",
			"url":      url,
			"mimeType": "audio/mpeg",
		},
	})
	return string(b)
}

func TestHasChapterAudioTrustsConclusiveCheck(t *testing.T) {
	var fetches int64
	mux := http.NewServeMux()
	var serverURL string
	mux.HandleFunc("/bibles/BIBLE1/audio-bibles/AUDIO1/chapters/GEN.1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		fmt.Fprint(w, audioBody(serverURL+"/assets/gen1.mp3"))
	})
	mux.HandleFunc("/assets/gen1.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r, ts := newTestResolver(t, mux)
	serverURL = ts.URL

	ok := r.HasChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
	assert.True(t, ok)
	// A conclusive check short-circuits: the audio resource is fetched once.
	assert.EqualValues(t, 1, atomic.LoadInt64(&fetches))
}

func TestHasChapterAudioConclusiveAbsenceShortCircuits(t *testing.T) {
	var fetches int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		fmt.Fprint(w, `{"data":{"id":"GEN.1"}}`) // well-formed, no url
	})

	r, _ := newTestResolver(t, handler)

	ok := r.HasChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
	assert.False(t, ok)
	// The check's verdict is authoritative even when negative.
	assert.EqualValues(t, 1, atomic.LoadInt64(&fetches))
}

func TestHasChapterAudioNotFound(t *testing.T) {
	// REV.22 has no narration: 404 from the provider.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"not found"}`)
	})

	r, _ := newTestResolver(t, handler)

	ok := r.HasChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "REV.22")
	assert.False(t, ok)

	state := NewAvailability()
	require.True(t, state.begin(0, "AUDIO1", "REV.22"))
	require.True(t, state.commit(0, "AUDIO1", "REV.22", ok))
	assert.Equal(t, Unavailable, state.State("AUDIO1", "REV.22"))
	assert.False(t, state.State("AUDIO1", "REV.22").Clickable())
}

func TestHasChapterAudioFallsBackToFullFetch(t *testing.T) {
	var calls int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			// Inconclusive check: transient upstream failure.
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"flaky"}`)
			return
		}
		fmt.Fprint(w, audioBody("https://cdn/x.mp3"))
	})

	r, _ := newTestResolver(t, handler)

	ok := r.HasChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
	assert.True(t, ok)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestHasChapterAudioNeverFails(t *testing.T) {
	t.Run("malformed body everywhere", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "this is not json")
		})
		r, _ := newTestResolver(t, handler)
		assert.False(t, r.HasChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1"))
	})

	t.Run("upstream unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()
		client := bibleapi.NewClient(ts.URL, "test-key", zap.NewNop())
		r := NewResolver(client, testFallbackURL, zap.NewNop())
		assert.False(t, r.HasChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1"))
	})
}

func TestHasChapterAudioIdempotent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		fmt.Fprint(w, audioBody("https://cdn/x.mp3"))
	})

	r, _ := newTestResolver(t, handler)

	ctx := context.Background()
	assert.True(t, r.HasChapterAudio(ctx, "BIBLE1", "AUDIO1", "GEN.1"))
	assert.True(t, r.HasChapterAudio(ctx, "BIBLE1", "AUDIO1", "GEN.1"))
}

func TestGetChapterAudioReturnsRealAsset(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, audioBody("https://cdn/x.mp3"))
	})

	r, _ := newTestResolver(t, handler)

	audio := r.GetChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
	assert.Equal(t, "https://cdn/x.mp3", audio.URL)
	assert.False(t, audio.Fallback)
	assert.Equal(t, "audio/mpeg", audio.MimeType)
}

func TestGetChapterAudioFallbackOn404(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"not found"}`)
	})

	r, _ := newTestResolver(t, handler)

	audio := r.GetChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "REV.22")
	assert.True(t, audio.Fallback)
	assert.Equal(t, testFallbackURL, audio.URL)
	assert.Equal(t, "fallback-BIBLE1-REV.22", audio.ID)
	assert.Equal(t, "audio/mpeg", audio.MimeType)
}

func TestGetChapterAudioFallbackOnMissingURL(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"id":"GEN.1"}}`)
	})

	r, _ := newTestResolver(t, handler)

	audio := r.GetChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
	assert.True(t, audio.Fallback)
	assert.Equal(t, testFallbackURL, audio.URL)
}

func TestGetChapterAudioAlwaysHasURL(t *testing.T) {
	// Even when the upstream is completely broken the descriptor is playable.
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	client := bibleapi.NewClient(ts.URL, "test-key", zap.NewNop())
	r := NewResolver(client, testFallbackURL, zap.NewNop())

	audio := r.GetChapterAudio(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
	assert.NotEmpty(t, audio.URL)
	assert.True(t, audio.Fallback)
}

func TestHasBibleAudio(t *testing.T) {
	t.Run("no editions", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		})
		r, _ := newTestResolver(t, handler)
		assert.False(t, r.HasBibleAudio(context.Background(), "ENGKJV"))
	})

	t.Run("404 reads as no audio", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"not found"}`)
		})
		r, _ := newTestResolver(t, handler)
		assert.False(t, r.HasBibleAudio(context.Background(), "ENGKJV"))
	})

	t.Run("one edition", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[{"id":"AUDIO1","name":"Narrated KJV","language":{"id":"eng","name":"English"}}]}`)
		})
		r, _ := newTestResolver(t, handler)
		assert.True(t, r.HasBibleAudio(context.Background(), "BIBLE1"))
	})
}

func TestCheckChapter(t *testing.T) {
	t.Run("available with url", func(t *testing.T) {
		mux := http.NewServeMux()
		var serverURL string
		mux.HandleFunc("/bibles/BIBLE1/audio-bibles/AUDIO1/chapters/GEN.1", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, audioBody(serverURL+"/assets/gen1.mp3"))
		})
		mux.HandleFunc("/assets/gen1.mp3", func(w http.ResponseWriter, r *http.Request) {})

		r, ts := newTestResolver(t, mux)
		serverURL = ts.URL

		res := r.CheckChapter(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
		assert.True(t, res.Available)
		assert.Equal(t, serverURL+"/assets/gen1.mp3", res.URL)
	})

	t.Run("unreachable asset url still counts", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, audioBody("http://127.0.0.1:1/pointing-nowhere.mp3"))
		})
		r, _ := newTestResolver(t, handler)

		res := r.CheckChapter(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
		assert.True(t, res.Available)
	})

	t.Run("404", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"not found"}`)
		})
		r, _ := newTestResolver(t, handler)

		res := r.CheckChapter(context.Background(), "BIBLE1", "AUDIO1", "REV.22")
		assert.False(t, res.Available)
		assert.Equal(t, "404_NOT_FOUND", res.Reason)
	})

	t.Run("transport failure", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()
		client := bibleapi.NewClient(ts.URL, "test-key", zap.NewNop())
		r := NewResolver(client, testFallbackURL, zap.NewNop())

		res := r.CheckChapter(context.Background(), "BIBLE1", "AUDIO1", "GEN.1")
		assert.False(t, res.Available)
		assert.NotEmpty(t, res.Reason)
	})
}
