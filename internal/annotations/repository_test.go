package annotations

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestHighlightRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := Highlight{
		ID:        "highlight_1",
		BibleID:   "BIBLE1",
		ChapterID: "GEN.1",
		Text:      "In the beginning",
		Color:     "#FFEB3B",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	second := Highlight{
		ID:        "highlight_2",
		BibleID:   "BIBLE1",
		ChapterID: "GEN.1",
		Text:      "God created",
		Color:     "#42A5F5",
		CreatedAt: time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC),
	}
	otherChapter := Highlight{
		ID:        "highlight_3",
		BibleID:   "BIBLE1",
		ChapterID: "GEN.2",
		Text:      "a mist from the earth",
		Color:     "#66BB6A",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.SaveHighlight(ctx, first))
	require.NoError(t, store.SaveHighlight(ctx, second))
	require.NoError(t, store.SaveHighlight(ctx, otherChapter))

	// Reloading yields exactly the entries for the (bible, chapter) pair.
	got, err := store.ListHighlights(ctx, "BIBLE1", "GEN.1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.Text, got[0].Text)
	assert.Equal(t, first.Color, got[0].Color)
	assert.Equal(t, second.Text, got[1].Text)

	other, err := store.ListHighlights(ctx, "BIBLE1", "GEN.2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "highlight_3", other[0].ID)

	empty, err := store.ListHighlights(ctx, "BIBLE2", "GEN.1")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSaveHighlightLastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	h := Highlight{
		ID:        "highlight_1",
		BibleID:   "BIBLE1",
		ChapterID: "GEN.1",
		Text:      "In the beginning",
		Color:     "#FFEB3B",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveHighlight(ctx, h))

	h.Color = "#EC407A"
	require.NoError(t, store.SaveHighlight(ctx, h))

	got, err := store.ListHighlights(ctx, "BIBLE1", "GEN.1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "#EC407A", got[0].Color)
}

func TestDeleteHighlight(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	h := Highlight{
		ID:        "highlight_1",
		BibleID:   "BIBLE1",
		ChapterID: "GEN.1",
		Text:      "In the beginning",
		Color:     "#FFEB3B",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveHighlight(ctx, h))
	require.NoError(t, store.DeleteHighlight(ctx, "highlight_1"))

	got, err := store.ListHighlights(ctx, "BIBLE1", "GEN.1")
	require.NoError(t, err)
	assert.Empty(t, got)

	err = store.DeleteHighlight(ctx, "highlight_1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestToggleFavorite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.ToggleFavorite(ctx, "ENGKJV")
	require.NoError(t, err)
	assert.True(t, saved)

	favorites, err := store.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ENGKJV"}, favorites)

	saved, err = store.ToggleFavorite(ctx, "ENGKJV")
	require.NoError(t, err)
	assert.False(t, saved)

	favorites, err = store.Favorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
