package bibleapi

// Projections of the scripture provider's resources. These are read-only:
// there is no local authoritative store behind them.

type Bible struct {
	ID                string       `json:"id"`
	DBLID             string       `json:"dblId,omitempty"`
	Abbreviation      string       `json:"abbreviation"`
	AbbreviationLocal string       `json:"abbreviationLocal,omitempty"`
	Name              string       `json:"name"`
	NameLocal         string       `json:"nameLocal,omitempty"`
	Description       string       `json:"description,omitempty"`
	DescriptionLocal  string       `json:"descriptionLocal,omitempty"`
	Language          Language     `json:"language"`
	Countries         []Country    `json:"countries,omitempty"`
	AudioBibles       []AudioBible `json:"audioBibles,omitempty"`
}

// HasAudio reports whether the translation lists at least one narrated
// edition. An empty or absent audioBibles list means no audio.
func (b Bible) HasAudio() bool {
	return len(b.AudioBibles) > 0
}

type Language struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	NameLocal       string `json:"nameLocal,omitempty"`
	Script          string `json:"script,omitempty"`
	ScriptDirection string `json:"scriptDirection,omitempty"`
}

type Country struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NameLocal string `json:"nameLocal,omitempty"`
}

// AudioBible is one narrated recording track-set associated with a Bible.
type AudioBible struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	NameLocal string   `json:"nameLocal,omitempty"`
	DBLID     string   `json:"dblId,omitempty"`
	Language  Language `json:"language"`
}

type Book struct {
	ID           string `json:"id"`
	BibleID      string `json:"bibleId"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	NameLong     string `json:"nameLong,omitempty"`
}

// ChapterLink points at an adjacent chapter in traversal order. Links may
// cross book boundaries when the provider encodes them that way.
type ChapterLink struct {
	ID     string `json:"id"`
	BookID string `json:"bookId"`
	Number string `json:"number"`
}

type Chapter struct {
	ID         string       `json:"id"`
	BibleID    string       `json:"bibleId"`
	BookID     string       `json:"bookId"`
	Number     string       `json:"number"`
	Reference  string       `json:"reference"`
	Content    string       `json:"content,omitempty"`
	VerseCount int          `json:"verseCount,omitempty"`
	Next       *ChapterLink `json:"next,omitempty"`
	Previous   *ChapterLink `json:"previous,omitempty"`
}

type Verse struct {
	ID        string `json:"id"`
	BibleID   string `json:"bibleId"`
	BookID    string `json:"bookId"`
	ChapterID string `json:"chapterId"`
	Reference string `json:"reference"`
	Content   string `json:"content"`
}

type SearchResult struct {
	Query  string  `json:"query"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Total  int     `json:"total"`
	Verses []Verse `json:"verses"`
}

// AudioData is the resolved playable unit for one (bible, edition, chapter).
// Fallback marks a substitute track, not the requested narration.
type AudioData struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	MimeType string  `json:"mimeType"`
	Format   string  `json:"format,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Fallback bool    `json:"fallback,omitempty"`
}
