package bibleapi

// oldTestamentBookCount is the number of Old Testament books in the
// Protestant canon ordering the provider uses for most translations.
const oldTestamentBookCount = 39

// GroupByTestament splits a book list into Old and New Testament groups by
// position: the first 39 books are treated as the Old Testament, the rest
// as the New. This is a display heuristic tied to one canonical ordering;
// deuterocanonical or reordered translations will be misclassified. Nothing
// correctness-critical hangs on it.
func GroupByTestament(books []Book) (oldTestament, newTestament []Book) {
	if len(books) <= oldTestamentBookCount {
		return books, nil
	}
	return books[:oldTestamentBookCount], books[oldTestamentBookCount:]
}
