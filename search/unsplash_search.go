package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultUnsplashURL     = "https://api.unsplash.com"
	DefaultUnsplashPerPage = 10
)

type UnsplashSearchEngine struct {
	client   *http.Client
	clientID string
	baseURL  string
	perPage  int
	logger   *zap.Logger
}

type unsplashResponse struct {
	Results []unsplashPhoto `json:"results"`
}

type unsplashPhoto struct {
	Description    *string `json:"description"`
	AltDescription *string `json:"alt_description"`
	Links          struct {
		HTML string `json:"html"`
	} `json:"links"`
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Username string `json:"username"`
		Links    struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
}

func NewUnsplashSearchEngine(clientID, baseURL string, perPage int, logger *zap.Logger) *UnsplashSearchEngine {
	if baseURL == "" {
		baseURL = DefaultUnsplashURL
	}
	if perPage <= 0 {
		perPage = DefaultUnsplashPerPage
	}
	return &UnsplashSearchEngine{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		clientID: clientID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		perPage:  perPage,
		logger:   logger,
	}
}

func (s *UnsplashSearchEngine) Engine() Engine {
	return StockPhoto
}

func (s *UnsplashSearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("per_page", strconv.Itoa(s.perPage))
	params.Set("query", query)

	apiURL := s.baseURL + "/search/photos?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.clientID)
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("unsplash request failed", zap.String("query", query), zap.Error(err))
		return nil, &ProviderError{Engine: StockPhoto, Message: "auth failure", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("unsplash search failed",
			zap.String("query", query),
			zap.Int("status_code", resp.StatusCode))
		return nil, &ProviderError{
			Engine:  StockPhoto,
			Message: "auth failure",
			Err:     fmt.Errorf("API returned status %d", resp.StatusCode),
		}
	}

	var searchResp unsplashResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		s.logger.Warn("unsplash response undecodable", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResp.Results))
	for _, photo := range searchResp.Results {
		if photo.Links.HTML == "" {
			continue
		}
		results = append(results, mapUnsplashPhoto(photo, query))
	}

	s.logger.Debug("unsplash search done",
		zap.String("query", query),
		zap.Int("results", len(results)))
	return results, nil
}

func mapUnsplashPhoto(photo unsplashPhoto, query string) SearchResult {
	var snippet string
	switch {
	case photo.Description != nil && *photo.Description != "":
		snippet = *photo.Description
	case photo.AltDescription != nil:
		snippet = *photo.AltDescription
	}

	return SearchResult{
		Query:        query,
		Source:       StockPhoto,
		Subsource:    photo.User.Username,
		SubsourceURL: photo.User.Links.HTML,
		URL:          photo.Links.HTML,
		Snippet:      TruncateSnippet(snippet),
		Thumbnail:    photo.URLs.Regular,
	}
}
