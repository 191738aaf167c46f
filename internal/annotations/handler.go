package annotations

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/koffiyao/bibleverse-api/pkg/response"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Routes returns the local annotation surface, mounted under /api/local.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/highlights", h.ListHighlightsHandler)
	r.Post("/highlights", h.CreateHighlightHandler)
	r.Delete("/highlights/{highlightID}", h.DeleteHighlightHandler)

	r.Get("/favorites", h.ListFavoritesHandler)
	r.Patch("/favorites/toggle", h.ToggleFavoriteHandler)

	return r
}

func (h *Handler) ListHighlightsHandler(w http.ResponseWriter, r *http.Request) {
	bibleID := r.URL.Query().Get("bibleId")
	chapterID := r.URL.Query().Get("chapterId")
	if bibleID == "" || chapterID == "" {
		response.Error(w, http.StatusBadRequest, "missing required query parameters", map[string]string{
			"bibleId":   "bibleId is required",
			"chapterId": "chapterId is required",
		})
		return
	}

	highlights, err := h.store.ListHighlights(r.Context(), bibleID, chapterID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to load highlights", err.Error())
		return
	}
	if highlights == nil {
		highlights = []Highlight{}
	}

	response.Data(w, highlights)
}

func (h *Handler) CreateHighlightHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateHighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if req.BibleID == "" || req.ChapterID == "" || req.Text == "" || req.Color == "" {
		response.Error(w, http.StatusBadRequest, "missing required fields", map[string]string{
			"bible_id":   "bible_id is required",
			"chapter_id": "chapter_id is required",
			"text":       "text is required",
			"color":      "color is required",
		})
		return
	}

	highlight := Highlight{
		ID:        "highlight_" + uuid.NewString(),
		BibleID:   req.BibleID,
		ChapterID: req.ChapterID,
		Text:      req.Text,
		Color:     req.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.SaveHighlight(r.Context(), highlight); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to save highlight", err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{"data": highlight})
}

func (h *Handler) DeleteHighlightHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "highlightID")

	err := h.store.DeleteHighlight(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "highlight not found", id)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to delete highlight", err.Error())
		return
	}

	response.Data(w, map[string]string{"deleted": id})
}

func (h *Handler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.store.Favorites(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to load favorites", err.Error())
		return
	}
	if favorites == nil {
		favorites = []string{}
	}

	response.Data(w, favorites)
}

func (h *Handler) ToggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var req ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if req.BibleID == "" {
		response.Error(w, http.StatusBadRequest, "missing required fields", map[string]string{
			"bible_id": "bible_id is required",
		})
		return
	}

	saved, err := h.store.ToggleFavorite(r.Context(), req.BibleID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to toggle favorite", err.Error())
		return
	}

	response.Data(w, map[string]bool{"is_favorite": saved})
}
