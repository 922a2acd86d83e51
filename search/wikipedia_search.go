package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	DefaultWikipediaURL = "https://en.wikipedia.org"

	disambiguationSnippet = "This page links to several Wikipedia articles that might be relevant."
	wikipediaSearchPage   = "Special:Search"
	maxListingResults     = 2
	minParagraphWords     = 10
)

type WikipediaSearchEngine struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

func NewWikipediaSearchEngine(baseURL string, logger *zap.Logger) *WikipediaSearchEngine {
	if baseURL == "" {
		baseURL = DefaultWikipediaURL
	}
	return &WikipediaSearchEngine{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (w *WikipediaSearchEngine) Engine() Engine {
	return Encyclopedia
}

// Search asks the wiki's own search page for query. An exact title match is
// redirected to the article, which yields one result; anything else stays on
// the search listing and yields its top entries.
func (w *WikipediaSearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("title", wikipediaSearchPage)
	params.Set("search", query)
	searchURL := w.baseURL + "/w/index.php?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	finalURL := resp.Request.URL
	results, err := parseWikipediaPage(resp.Body, w.baseURL, finalURL, query)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("wikipedia search done",
		zap.String("query", query),
		zap.String("final_url", finalURL.String()),
		zap.Int("results", len(results)))
	return results, nil
}

func parseWikipediaPage(body io.Reader, baseURL string, finalURL *url.URL, query string) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	if isSearchListing(finalURL) {
		return parseWikipediaListing(doc, baseURL, query), nil
	}
	return []SearchResult{parseWikipediaArticle(doc, finalURL.String(), query)}, nil
}

// isSearchListing reports whether the request was left on the search page,
// meaning the term did not resolve to an article.
func isSearchListing(u *url.URL) bool {
	return u.Query().Get("title") == wikipediaSearchPage || strings.Contains(u.Path, wikipediaSearchPage)
}

func parseWikipediaListing(doc *goquery.Document, baseURL, query string) []SearchResult {
	var results []SearchResult
	doc.Find("li.mw-search-result").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		heading := item.Find("div.mw-search-result-heading > a").First()
		href, ok := heading.Attr("href")
		if !ok || href == "" {
			return true
		}

		result := SearchResult{
			Query:     query,
			Source:    Encyclopedia,
			URL:       absoluteWikiURL(baseURL, href),
			Title:     strings.TrimSpace(heading.Text()),
			Thumbnail: NoThumbnail,
		}
		if src, ok := item.Find("div.searchResultImage-thumbnail > a img").First().Attr("src"); ok && src != "" {
			result.Thumbnail = absoluteImageURL(src)
		}

		snippet := item.Find("div.searchResultImage-text > div.searchresult").First()
		if snippet.Length() == 0 {
			snippet = item.Find("div.searchresult").First()
		}
		result.Snippet = TruncateSnippet(strings.TrimSpace(snippet.Text()))

		results = append(results, result)
		return len(results) < maxListingResults
	})
	return results
}

func parseWikipediaArticle(doc *goquery.Document, pageURL, query string) SearchResult {
	result := SearchResult{
		Query:  query,
		Source: Encyclopedia,
		URL:    pageURL,
		Title:  strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	paragraph := leadParagraph(doc)
	if isDisambiguation(paragraph) {
		result.Snippet = disambiguationSnippet
		result.Thumbnail = NoThumbnail
		return result
	}

	result.Snippet = TruncateSnippet(paragraph)
	result.Thumbnail = NoThumbnail
	doc.Find("meta[property]").EachWithBreak(func(_ int, meta *goquery.Selection) bool {
		if prop, _ := meta.Attr("property"); prop != "og:image" {
			return true
		}
		if content, ok := meta.Attr("content"); ok {
			result.Thumbnail = content
			return false
		}
		return true
	})
	return result
}

// leadParagraph returns the first unclassed paragraph with more than ten
// words, which skips empty and hatnote paragraphs.
func leadParagraph(doc *goquery.Document) string {
	var text string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if _, hasClass := p.Attr("class"); hasClass {
			return true
		}
		t := p.Text()
		if len(strings.Fields(t)) <= minParagraphWords {
			return true
		}
		text = strings.TrimSpace(t)
		return false
	})
	return text
}

func isDisambiguation(paragraph string) bool {
	return paragraph == "" ||
		strings.HasSuffix(paragraph, "may refer to:") ||
		strings.HasSuffix(paragraph, "may also refer to:")
}

func absoluteWikiURL(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return baseURL + href
}

func absoluteImageURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
