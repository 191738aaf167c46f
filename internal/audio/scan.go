package audio

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/internal/bibleapi"
)

// ErrNoAudio signals that a whole book has no narrated chapters under the
// selected edition. It is a normal condition, distinct from a hard failure.
var ErrNoAudio = errors.New("no chapter with audio in this book")

// ErrSuperseded signals that the selection changed while a scan was
// running and its remaining results were discarded.
var ErrSuperseded = errors.New("scan superseded by a newer selection")

// chapterChecker is what the scanner needs from the resolver.
type chapterChecker interface {
	HasChapterAudio(ctx context.Context, bibleID, audioBibleID, chapterID string) bool
}

// Scanner walks a book's chapters and records audio availability.
//
// Chapters are checked strictly sequentially, in canonical order: the
// provider misbehaves under concurrent probing, so the scan trades latency
// for correctness. Check k+1 is not issued until check k has settled.
type Scanner struct {
	checker chapterChecker
	avail   *Availability
	log     *zap.Logger
}

func NewScanner(checker chapterChecker, avail *Availability, log *zap.Logger) *Scanner {
	return &Scanner{checker: checker, avail: avail, log: log}
}

// ScanBook probes every chapter of a book under one edition. Each verdict
// is published through onResult as soon as it lands, so observers can
// render partial progress instead of waiting for the whole batch.
//
// Returns ErrNoAudio when no chapter reported availability, ErrSuperseded
// when the selection changed mid-scan, or the context error on
// cancellation.
func (s *Scanner) ScanBook(ctx context.Context, bibleID, audioBibleID string, chapters []bibleapi.Chapter, onResult func(chapterID string, available bool)) error {
	gen := s.avail.Generation()
	s.log.Info("scanning book for chapter audio",
		zap.String("bible", bibleID),
		zap.String("edition", audioBibleID),
		zap.Int("chapters", len(chapters)),
	)

	audioFound := false
	for _, chapter := range chapters {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.avail.begin(gen, audioBibleID, chapter.ID) {
			return ErrSuperseded
		}

		hasAudio := s.checker.HasChapterAudio(ctx, bibleID, audioBibleID, chapter.ID)

		if !s.avail.commit(gen, audioBibleID, chapter.ID, hasAudio) {
			return ErrSuperseded
		}
		if onResult != nil {
			onResult(chapter.ID, hasAudio)
		}
		if hasAudio {
			audioFound = true
		}
	}

	if !audioFound {
		return ErrNoAudio
	}
	return nil
}
