// Package proxy exposes the local HTTP surface mirroring the scripture
// provider's resource tree. It injects the server-held API key (so the key
// never reaches the browser), passes successful bodies through verbatim and
// normalizes failures into the {error, details} envelope. No retries happen
// here; retry initiative belongs to the audio resolver and to callers.
package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/internal/audio"
	"github.com/koffiyao/bibleverse-api/internal/bibleapi"
	"github.com/koffiyao/bibleverse-api/pkg/response"
)

type Handler struct {
	client   *bibleapi.Client
	resolver *audio.Resolver
	log      *zap.Logger
}

func NewHandler(client *bibleapi.Client, resolver *audio.Resolver, log *zap.Logger) *Handler {
	return &Handler{client: client, resolver: resolver, log: log}
}

// Routes returns the relay surface, meant to be mounted under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/bibles", h.forwardTo("/bibles", "failed to fetch bibles"))
	r.Get("/bibles/{bibleID}", h.forward1("/bibles/%s", "bibleID", "failed to fetch bible"))
	r.Get("/bibles/{bibleID}/books", h.forward1("/bibles/%s/books", "bibleID", "failed to fetch books"))
	r.Get("/bibles/{bibleID}/books/{bookID}", h.forward2("/bibles/%s/books/%s", "bibleID", "bookID", "failed to fetch book"))
	r.Get("/bibles/{bibleID}/books/{bookID}/chapters", h.forward2("/bibles/%s/books/%s/chapters", "bibleID", "bookID", "failed to fetch chapters"))
	r.Get("/bibles/{bibleID}/chapters/{chapterID}", h.forward2("/bibles/%s/chapters/%s", "bibleID", "chapterID", "failed to fetch chapter"))
	r.Get("/bibles/{bibleID}/verses/{verseID}", h.forward2("/bibles/%s/verses/%s", "bibleID", "verseID", "failed to fetch verse"))
	r.Get("/bibles/{bibleID}/search", h.forward1("/bibles/%s/search", "bibleID", "search failed"))

	r.Get("/bibles/{bibleID}/audio-bibles", h.forward1("/bibles/%s/audio-bibles", "bibleID", "failed to fetch audio bibles"))
	r.Get("/audio-bibles", h.forwardTo("/audio-bibles", "failed to fetch audio bibles"))
	r.Get("/audio-bibles/{audioBibleID}", h.forward1("/audio-bibles/%s", "audioBibleID", "failed to fetch audio bible"))
	r.Get("/audio-bibles/{audioBibleID}/books", h.forward1("/audio-bibles/%s/books", "audioBibleID", "failed to fetch audio books"))
	r.Get("/audio-bibles/{audioBibleID}/books/{bookID}/chapters", h.forward2("/audio-bibles/%s/books/%s/chapters", "audioBibleID", "bookID", "failed to fetch audio chapters"))
	r.Get("/audio-bibles/{audioBibleID}/chapters/{chapterID}", h.AudioBibleChapter)

	r.Get("/bibles/{bibleID}/audio-bibles/{audioBibleID}/chapters/{chapterID}", h.ChapterAudio)
	r.Get("/bibles/{bibleID}/audio-bibles/{audioBibleID}/chapters/{chapterID}/check", h.CheckChapterAudio)

	// Generic passthrough for anything else under the bible namespace.
	r.HandleFunc("/bibles/*", h.Passthrough)

	r.Get("/status", h.Status)

	return r
}

// forwardTo proxies a fixed upstream path, query included.
func (h *Handler) forwardTo(path, errMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.relay(w, r, path, errMsg)
	}
}

// forward1 and forward2 interpolate route params into the upstream path.
func (h *Handler) forward1(pattern, param, errMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.relay(w, r, fmt.Sprintf(pattern, chi.URLParam(r, param)), errMsg)
	}
}

func (h *Handler) forward2(pattern, param1, param2, errMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.relay(w, r, fmt.Sprintf(pattern, chi.URLParam(r, param1), chi.URLParam(r, param2)), errMsg)
	}
}

// relay forwards one GET to the provider and mirrors the reply. Success
// bodies pass through unmodified; failures keep the upstream status (500
// when there is none) wrapped in the error envelope.
func (h *Handler) relay(w http.ResponseWriter, r *http.Request, path, errMsg string) {
	raw, err := h.client.Forward(r.Context(), http.MethodGet, path, r.URL.Query(), nil)
	if err != nil {
		response.Error(w, bibleapi.StatusOf(err), errMsg, bibleapi.DetailsOf(err))
		return
	}
	if raw.StatusCode >= 400 {
		response.Error(w, raw.StatusCode, errMsg, errDetails(raw.Body))
		return
	}
	response.Raw(w, raw.StatusCode, raw.Body)
}

// errDetails keeps the upstream error body when it is valid JSON and falls
// back to the raw text otherwise.
func errDetails(body []byte) interface{} {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

// AudioBibleChapter proxies an edition's chapter resource and insists on a
// resource URL being present, turning a URL-less success into a 404.
func (h *Handler) AudioBibleChapter(w http.ResponseWriter, r *http.Request) {
	audioBibleID := chi.URLParam(r, "audioBibleID")
	chapterID := chi.URLParam(r, "chapterID")
	path := "/audio-bibles/" + audioBibleID + "/chapters/" + chapterID

	raw, err := h.client.Forward(r.Context(), http.MethodGet, path, r.URL.Query(), nil)
	if err != nil {
		response.Error(w, bibleapi.StatusOf(err), "failed to fetch audio chapter", bibleapi.DetailsOf(err))
		return
	}
	if raw.StatusCode >= 400 {
		response.Error(w, raw.StatusCode, "failed to fetch audio chapter", errDetails(raw.Body))
		return
	}

	var payload struct {
		Data struct {
			ResourceURL string `json:"resourceUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw.Body, &payload); err != nil || payload.Data.ResourceURL == "" {
		response.Error(w, http.StatusNotFound, "audio not available", "no audio url was found for this chapter")
		return
	}
	response.Raw(w, raw.StatusCode, raw.Body)
}

// ChapterAudio resolves the playable descriptor for one chapter. The
// resolver never fails: when the real asset is missing the reply is the
// flagged fallback descriptor, so this endpoint always answers 200 with a
// non-empty url.
func (h *Handler) ChapterAudio(w http.ResponseWriter, r *http.Request) {
	bibleID := chi.URLParam(r, "bibleID")
	audioBibleID := chi.URLParam(r, "audioBibleID")
	chapterID := chi.URLParam(r, "chapterID")

	descriptor := h.resolver.GetChapterAudio(r.Context(), bibleID, audioBibleID, chapterID)
	response.Data(w, descriptor)
}

// CheckChapterAudio is the lightweight availability probe, answering
// {available, url?, reason?} instead of the generic envelope.
func (h *Handler) CheckChapterAudio(w http.ResponseWriter, r *http.Request) {
	bibleID := chi.URLParam(r, "bibleID")
	audioBibleID := chi.URLParam(r, "audioBibleID")
	chapterID := chi.URLParam(r, "chapterID")

	result := h.resolver.CheckChapter(r.Context(), bibleID, audioBibleID, chapterID)
	response.JSON(w, http.StatusOK, result)
}

// Passthrough re-issues any other verb/path under the bible namespace to
// the provider: same method, same query, and the body for non-GET calls.
func (h *Handler) Passthrough(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if i := strings.Index(path, "/bibles/"); i >= 0 {
		path = path[i:]
	}

	var body io.Reader
	if r.Method != http.MethodGet {
		body = r.Body
	}

	raw, err := h.client.Forward(r.Context(), r.Method, path, r.URL.Query(), body)
	if err != nil {
		response.Error(w, bibleapi.StatusOf(err), "failed to call the bible api", bibleapi.DetailsOf(err))
		return
	}
	if raw.StatusCode >= 400 {
		response.Error(w, raw.StatusCode, "failed to call the bible api", errDetails(raw.Body))
		return
	}
	response.Raw(w, raw.StatusCode, raw.Body)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "the server is online",
	})
}
