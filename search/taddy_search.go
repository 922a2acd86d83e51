package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultTaddyURL = "https://api.taddy.org"

const taddySearchQuery = `query SearchEpisodes($term: String!) {
  searchForTerm(
    term: $term
    filterForTypes: PODCASTEPISODE
    searchResultsBoostType: BOOST_POPULARITY_A_LOT
    limitPerPage: 3
  ) {
    searchId
    podcastEpisodes {
      uuid
      name
      subtitle
      websiteUrl
      audioUrl
      imageUrl
      description
      podcastSeries {
        uuid
        name
        imageUrl
        websiteUrl
      }
    }
  }
}`

type TaddyConfig struct {
	UserID  string
	APIKey  string
	BaseURL string
}

type TaddySearchEngine struct {
	client *http.Client
	cfg    TaddyConfig
	logger *zap.Logger
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type taddyEpisode struct {
	UUID          string `json:"uuid"`
	Name          string `json:"name"`
	Subtitle      string `json:"subtitle"`
	WebsiteURL    string `json:"websiteUrl"`
	AudioURL      string `json:"audioUrl"`
	ImageURL      string `json:"imageUrl"`
	Description   string `json:"description"`
	PodcastSeries struct {
		UUID       string `json:"uuid"`
		Name       string `json:"name"`
		ImageURL   string `json:"imageUrl"`
		WebsiteURL string `json:"websiteUrl"`
	} `json:"podcastSeries"`
}

type taddyResponse struct {
	Data struct {
		SearchForTerm struct {
			SearchID        string         `json:"searchId"`
			PodcastEpisodes []taddyEpisode `json:"podcastEpisodes"`
		} `json:"searchForTerm"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func NewTaddySearchEngine(cfg TaddyConfig, logger *zap.Logger) *TaddySearchEngine {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTaddyURL
	}
	return &TaddySearchEngine{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (t *TaddySearchEngine) Engine() Engine {
	return Podcast
}

func (t *TaddySearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query:     taddySearchQuery,
		Variables: map[string]any{"term": query},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-USER-ID", t.cfg.UserID)
	req.Header.Set("X-API-KEY", t.cfg.APIKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("taddy returned status %d", resp.StatusCode)
	}

	var body taddyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(body.Errors) > 0 {
		t.logger.Warn("taddy api error",
			zap.String("query", query),
			zap.String("message", body.Errors[0].Message))
		return nil, &ProviderError{Engine: Podcast, Message: "authentication issue with Taddy"}
	}

	results := make([]SearchResult, 0, len(body.Data.SearchForTerm.PodcastEpisodes))
	for _, episode := range body.Data.SearchForTerm.PodcastEpisodes {
		if result, ok := mapTaddyEpisode(episode, query); ok {
			results = append(results, result)
		}
	}
	return results, nil
}

func mapTaddyEpisode(episode taddyEpisode, query string) (SearchResult, bool) {
	series := episode.PodcastSeries

	var link string
	switch {
	case episode.WebsiteURL != "" && episode.WebsiteURL != series.WebsiteURL:
		link = episode.WebsiteURL
	case episode.AudioURL != "":
		link = episode.AudioURL
	default:
		link = series.WebsiteURL
	}
	if link == "" {
		return SearchResult{}, false
	}

	snippet := episode.Subtitle
	if snippet == "" {
		snippet = episode.Description
	}

	thumbnail := episode.ImageURL
	if thumbnail == "" {
		thumbnail = series.ImageURL
	}

	return SearchResult{
		Query:        query,
		Source:       Podcast,
		Subsource:    series.Name,
		SubsourceURL: series.WebsiteURL,
		URL:          link,
		Title:        episode.Name,
		Snippet:      TruncateSnippet(snippet),
		Thumbnail:    thumbnail,
	}, true
}
