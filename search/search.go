package search

import (
	"context"
	"strings"
)

// Engine identifies one of the content engines a result can come from.
type Engine string

const (
	Encyclopedia Engine = "Wikipedia"
	Discussion   Engine = "Reddit"
	Podcast      Engine = "Podcast"
	StockPhoto   Engine = "Unsplash"
	VectorImage  Engine = "Image Vector Search"
)

// plannable engines may appear in planner output. VectorImage is only
// reachable through the direct image route.
var plannable = []Engine{Encyclopedia, Discussion, Podcast, StockPhoto}

// ParseEngine maps a bracketed tag such as "Reddit" or "unsplash" to an Engine.
// Only the planner-addressable engines are accepted.
func ParseEngine(tag string) (Engine, bool) {
	for _, e := range plannable {
		if strings.EqualFold(tag, string(e)) {
			return e, true
		}
	}
	return "", false
}

// Valid reports whether e is one of the known engines.
func (e Engine) Valid() bool {
	if e == VectorImage {
		return true
	}
	for _, known := range plannable {
		if e == known {
			return true
		}
	}
	return false
}

// TaggedQuery is a sub-query addressed to one engine.
type TaggedQuery struct {
	Engine Engine `json:"engine"`
	Text   string `json:"text"`
}

func (q TaggedQuery) String() string {
	return string(q.Engine) + ": " + q.Text
}

type SearchEngine interface {
	Engine() Engine
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// ProviderError is returned when an upstream service rejects the call, for
// example on bad credentials. It becomes an inline error record instead of
// being dropped.
type ProviderError struct {
	Engine  Engine
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return string(e.Engine) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Engine) + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
