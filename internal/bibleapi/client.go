// Package bibleapi is the typed data access layer over the scripture
// provider. It owns URL construction, API key injection, envelope
// unwrapping and error normalization; callers get Go values or a typed
// error, never a raw wire payload.
package bibleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// UpstreamError carries a non-2xx provider response. The raw body is kept
// so the relay can surface it verbatim in the details field.
type UpstreamError struct {
	StatusCode int
	Body       json.RawMessage
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an upstream 404. Callers treat 404 on
// audio endpoints as a normal "no audio" signal, not a failure.
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound
}

// StatusOf returns the upstream status carried by err, or 500 when err is
// not an UpstreamError (transport failure, decode failure).
func StatusOf(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return http.StatusInternalServerError
}

// DetailsOf returns the upstream error body when present, otherwise the
// error message, for the {error, details} envelope.
func DetailsOf(err error) interface{} {
	var ue *UpstreamError
	if errors.As(err, &ue) && len(ue.Body) > 0 {
		return ue.Body
	}
	return err.Error()
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
	cache   *memoryCache
}

func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
		cache:   newMemoryCache(5 * time.Minute),
	}
}

// RawResponse is an upstream reply before any interpretation. Any status
// code is carried through; only transport failures surface as errors.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Forward re-issues a request against the provider with the API key
// attached. It backs every typed accessor and the relay's catch-all route.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, body io.Reader) (*RawResponse, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("upstream request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("calling bible api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	c.log.Debug("upstream response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return &RawResponse{StatusCode: resp.StatusCode, Body: raw}, nil
}

// getJSON fetches path and decodes the {"data": ...} envelope into out,
// which must be a pointer to the data projection.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	raw, err := c.Forward(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if raw.StatusCode >= 400 {
		return c.asUpstreamError(raw)
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw.Body, &envelope); err != nil {
		return fmt.Errorf("decoding %s envelope: %w", path, err)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("decoding %s envelope: missing data field", path)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding %s payload: %w", path, err)
	}
	return nil
}

func (c *Client) asUpstreamError(raw *RawResponse) error {
	msg := http.StatusText(raw.StatusCode)
	if raw.StatusCode == http.StatusUnauthorized {
		msg = "the API key is invalid or has expired"
	}
	body := json.RawMessage(nil)
	if json.Valid(raw.Body) {
		body = json.RawMessage(bytes.TrimSpace(raw.Body))
	}
	return &UpstreamError{StatusCode: raw.StatusCode, Body: body, Message: msg}
}

// Bibles lists every available translation. Results are cached briefly;
// the full list is large and changes rarely.
func (c *Client) Bibles(ctx context.Context) ([]Bible, error) {
	if v, ok := c.cache.get("/bibles"); ok {
		return v.([]Bible), nil
	}
	var bibles []Bible
	if err := c.getJSON(ctx, "/bibles", nil, &bibles); err != nil {
		return nil, err
	}
	c.cache.set("/bibles", bibles)
	return bibles, nil
}

// BiblesWithAudio lists only translations that carry at least one narrated
// edition.
func (c *Client) BiblesWithAudio(ctx context.Context) ([]Bible, error) {
	all, err := c.Bibles(ctx)
	if err != nil {
		return nil, err
	}
	withAudio := make([]Bible, 0, len(all))
	for _, b := range all {
		if b.HasAudio() {
			withAudio = append(withAudio, b)
		}
	}
	return withAudio, nil
}

// BiblesWithAudioRetry wraps BiblesWithAudio with a capped automatic retry.
// This is the only auto-retried call in the whole system: the audio listing
// is the first load of the audio view and the one place where a transient
// transport failure should not force a manual retry.
func (c *Client) BiblesWithAudioRetry(ctx context.Context, attempts int, backoff time.Duration) ([]Bible, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			c.log.Info("retrying audio bible list load", zap.Int("attempt", i+1), zap.Int("max", attempts))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		bibles, err := c.BiblesWithAudio(ctx)
		if err == nil {
			return bibles, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) Bible(ctx context.Context, bibleID string) (*Bible, error) {
	var bible Bible
	if err := c.getJSON(ctx, "/bibles/"+bibleID, nil, &bible); err != nil {
		return nil, err
	}
	return &bible, nil
}

func (c *Client) Books(ctx context.Context, bibleID string) ([]Book, error) {
	key := "/bibles/" + bibleID + "/books"
	if v, ok := c.cache.get(key); ok {
		return v.([]Book), nil
	}
	var books []Book
	if err := c.getJSON(ctx, key, nil, &books); err != nil {
		return nil, err
	}
	c.cache.set(key, books)
	return books, nil
}

func (c *Client) Book(ctx context.Context, bibleID, bookID string) (*Book, error) {
	var book Book
	if err := c.getJSON(ctx, "/bibles/"+bibleID+"/books/"+bookID, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) Chapters(ctx context.Context, bibleID, bookID string) ([]Chapter, error) {
	var chapters []Chapter
	if err := c.getJSON(ctx, "/bibles/"+bibleID+"/books/"+bookID+"/chapters", nil, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (c *Client) Chapter(ctx context.Context, bibleID, chapterID string) (*Chapter, error) {
	var chapter Chapter
	if err := c.getJSON(ctx, "/bibles/"+bibleID+"/chapters/"+chapterID, nil, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (c *Client) Verse(ctx context.Context, bibleID, verseID string) (*Verse, error) {
	var verse Verse
	if err := c.getJSON(ctx, "/bibles/"+bibleID+"/verses/"+verseID, nil, &verse); err != nil {
		return nil, err
	}
	return &verse, nil
}

func (c *Client) Passage(ctx context.Context, bibleID, passageID string) (*Chapter, error) {
	var passage Chapter
	if err := c.getJSON(ctx, "/bibles/"+bibleID+"/passages/"+passageID, nil, &passage); err != nil {
		return nil, err
	}
	return &passage, nil
}

func (c *Client) Search(ctx context.Context, bibleID, query string, limit, offset int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var result SearchResult
	if err := c.getJSON(ctx, "/bibles/"+bibleID+"/search", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AudioBibles lists the narrated editions of one translation. A 404 means
// the translation simply has no audio, so it maps to an empty list.
func (c *Client) AudioBibles(ctx context.Context, bibleID string) ([]AudioBible, error) {
	var editions []AudioBible
	err := c.getJSON(ctx, "/bibles/"+bibleID+"/audio-bibles", nil, &editions)
	if IsNotFound(err) {
		return []AudioBible{}, nil
	}
	if err != nil {
		return nil, err
	}
	return editions, nil
}

func (c *Client) ListAudioBibles(ctx context.Context) ([]AudioBible, error) {
	var editions []AudioBible
	if err := c.getJSON(ctx, "/audio-bibles", nil, &editions); err != nil {
		return nil, err
	}
	return editions, nil
}

func (c *Client) AudioBible(ctx context.Context, audioBibleID string) (*AudioBible, error) {
	var edition AudioBible
	if err := c.getJSON(ctx, "/audio-bibles/"+audioBibleID, nil, &edition); err != nil {
		return nil, err
	}
	return &edition, nil
}

func (c *Client) AudioBooks(ctx context.Context, audioBibleID string) ([]Book, error) {
	var books []Book
	if err := c.getJSON(ctx, "/audio-bibles/"+audioBibleID+"/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) AudioChapters(ctx context.Context, audioBibleID, bookID string) ([]Chapter, error) {
	var chapters []Chapter
	if err := c.getJSON(ctx, "/audio-bibles/"+audioBibleID+"/books/"+bookID+"/chapters", nil, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// ChapterAudio fetches the raw audio resource for one (bible, edition,
// chapter) triple. It can fail or come back without a URL; the audio
// resolver owns the fallback policy, not this layer.
func (c *Client) ChapterAudio(ctx context.Context, bibleID, audioBibleID, chapterID string) (*AudioData, error) {
	path := "/bibles/" + bibleID + "/audio-bibles/" + audioBibleID + "/chapters/" + chapterID
	var audio AudioData
	if err := c.getJSON(ctx, path, nil, &audio); err != nil {
		return nil, err
	}
	return &audio, nil
}

// ClearCache drops all cached list responses.
func (c *Client) ClearCache() {
	c.cache.clear()
}
