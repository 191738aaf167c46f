// Package audio decides whether narrated audio exists for a chapter and
// resolves a playable URL. The contract is that resolution never surfaces a
// hard error: absence of audio is a normal outcome, and every failure path
// ends in a clearly flagged fallback descriptor.
package audio

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/internal/bibleapi"
)

// checkTimeout bounds the HEAD probe that validates a resolved audio URL is
// reachable. All other calls rely on the transport's default timeout.
const checkTimeout = 5 * time.Second

// chapterAudioClient is the slice of the data access layer the resolver
// needs.
type chapterAudioClient interface {
	AudioBibles(ctx context.Context, bibleID string) ([]bibleapi.AudioBible, error)
	ChapterAudio(ctx context.Context, bibleID, audioBibleID, chapterID string) (*bibleapi.AudioData, error)
}

// CheckResult is the verdict of the lightweight availability probe, also
// the wire shape of the relay's /check endpoint.
type CheckResult struct {
	Available bool   `json:"available"`
	URL       string `json:"url,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type Resolver struct {
	client      chapterAudioClient
	fallbackURL string
	head        *http.Client
	log         *zap.Logger
}

func NewResolver(client chapterAudioClient, fallbackURL string, log *zap.Logger) *Resolver {
	return &Resolver{
		client:      client,
		fallbackURL: fallbackURL,
		head:        &http.Client{Timeout: checkTimeout},
		log:         log,
	}
}

// HasBibleAudio reports whether a translation carries any narrated edition.
// It never returns an error; a failed lookup reads as "no audio".
func (r *Resolver) HasBibleAudio(ctx context.Context, bibleID string) bool {
	editions, err := r.client.AudioBibles(ctx, bibleID)
	if err != nil {
		r.log.Warn("audio edition lookup failed", zap.String("bible", bibleID), zap.Error(err))
		return false
	}
	return len(editions) > 0
}

// CheckChapter is the public face of the availability probe, backing the
// relay's /check endpoint. Unlike the internal probe it never reports
// "inconclusive": any failure reads as unavailable with a reason.
func (r *Resolver) CheckChapter(ctx context.Context, bibleID, audioBibleID, chapterID string) CheckResult {
	res, err := r.probe(ctx, bibleID, audioBibleID, chapterID)
	if err != nil {
		return CheckResult{Available: false, Reason: err.Error()}
	}
	return res
}

// HasChapterAudio reports whether narrated audio exists for one chapter.
//
// The probe's verdict is authoritative when it completes, even where the
// full-fetch path would disagree: the cheap purpose-built check wins over
// the more expensive fetch. Only an inconclusive probe (transport failure,
// malformed body, non-404 upstream error) falls through to the full fetch,
// where availability means a URL not marked as fallback. Everything else is
// false. This function never fails and never panics.
func (r *Resolver) HasChapterAudio(ctx context.Context, bibleID, audioBibleID, chapterID string) bool {
	res, err := r.probe(ctx, bibleID, audioBibleID, chapterID)
	if err == nil {
		return res.Available
	}
	r.log.Warn("availability probe inconclusive, falling back to full fetch",
		zap.String("chapter", chapterID), zap.Error(err))

	audio := r.GetChapterAudio(ctx, bibleID, audioBibleID, chapterID)
	return audio.URL != "" && !audio.Fallback
}

// probe implements the existence check. A nil error means the verdict is
// conclusive. 404 is conclusive: the chapter has no narration. When a URL
// is present it is HEAD-probed with a short timeout, but an unreachable
// probe does not negate availability; the URL existing is what counts.
func (r *Resolver) probe(ctx context.Context, bibleID, audioBibleID, chapterID string) (CheckResult, error) {
	audio, err := r.client.ChapterAudio(ctx, bibleID, audioBibleID, chapterID)
	if bibleapi.IsNotFound(err) {
		r.log.Debug("no audio for chapter (404)", zap.String("chapter", chapterID))
		return CheckResult{Available: false, Reason: "404_NOT_FOUND"}, nil
	}
	if err != nil {
		return CheckResult{}, err
	}
	if audio.URL == "" {
		return CheckResult{Available: false, Reason: "no audio url in response"}, nil
	}

	if err := r.headCheck(ctx, audio.URL); err != nil {
		r.log.Debug("audio url exists but could not be verified",
			zap.String("chapter", chapterID), zap.Error(err))
	}
	return CheckResult{Available: true, URL: audio.URL}, nil
}

func (r *Resolver) headCheck(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := r.head.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// GetChapterAudio resolves a playable descriptor for one chapter. When the
// upstream has a usable URL the real asset is returned with Fallback false.
// A well-formed response without a URL, a 404, a transport failure or a
// malformed body all terminate in the synthesized fallback descriptor:
// playback is never blocked by a hard failure.
func (r *Resolver) GetChapterAudio(ctx context.Context, bibleID, audioBibleID, chapterID string) bibleapi.AudioData {
	audio, err := r.client.ChapterAudio(ctx, bibleID, audioBibleID, chapterID)
	if err != nil || audio.URL == "" {
		if err != nil {
			r.log.Info("audio fetch failed, serving fallback track",
				zap.String("bible", bibleID), zap.String("chapter", chapterID), zap.Error(err))
		} else {
			r.log.Info("no audio url for chapter, serving fallback track",
				zap.String("bible", bibleID), zap.String("chapter", chapterID))
		}
		return r.fallbackDescriptor(bibleID, chapterID)
	}

	if audio.MimeType == "" {
		audio.MimeType = "audio/mpeg"
	}
	audio.Fallback = false
	return *audio
}

// fallbackDescriptor synthesizes the substitute track. The id is derived
// deterministically from the request so repeated failures resolve to the
// same descriptor.
func (r *Resolver) fallbackDescriptor(bibleID, chapterID string) bibleapi.AudioData {
	return bibleapi.AudioData{
		ID:       "fallback-" + bibleID + "-" + chapterID,
		URL:      r.fallbackURL,
		MimeType: "audio/mpeg",
		Fallback: true,
	}
}
