package search

// NoThumbnail marks a result that deliberately carries no image.
const NoThumbnail = "none"

const (
	maxSnippetRunes = 1000
	moreMarker      = "...(more)"
)

type SearchResult struct {
	Query        string `json:"query"`
	Source       Engine `json:"source"`
	Subsource    string `json:"subsource,omitempty"`
	SubsourceURL string `json:"subsource_url,omitempty"`
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	Snippet      string `json:"snippet,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Valid reports whether r can be shown as a card.
func (r SearchResult) Valid() bool {
	return r.Error == "" && r.URL != "" && r.Source.Valid()
}

// HasThumbnail reports whether r carries a displayable image.
func (r SearchResult) HasThumbnail() bool {
	return r.Thumbnail != "" && r.Thumbnail != NoThumbnail
}

// ErrorResult builds the single inline record a connector yields when the
// provider refuses the request.
func ErrorResult(query string, engine Engine, message string) SearchResult {
	return SearchResult{
		Query:  query,
		Source: engine,
		Error:  message,
	}
}

// TruncateSnippet keeps at most 1000 characters of s and appends a
// continuation marker when anything was cut.
func TruncateSnippet(s string) string {
	if t := truncateRunes(s, maxSnippetRunes); len(t) < len(s) {
		return t + moreMarker
	}
	return s
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
