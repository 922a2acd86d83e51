package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultRedditAuthURL = "https://www.reddit.com"
	DefaultRedditAPIURL  = "https://oauth.reddit.com"

	redditSiteURL     = "https://www.reddit.com"
	redditResultLimit = 4
	maxRedditQuery    = 512
)

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	AuthURL      string
	APIURL       string
}

type RedditSearchEngine struct {
	client *http.Client
	cfg    RedditConfig
	logger *zap.Logger
}

func NewRedditSearchEngine(cfg RedditConfig, logger *zap.Logger) *RedditSearchEngine {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultRedditAuthURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultRedditAPIURL
	}
	cfg.AuthURL = strings.TrimRight(cfg.AuthURL, "/")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return &RedditSearchEngine{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (r *RedditSearchEngine) Engine() Engine {
	return Discussion
}

func (r *RedditSearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	token, err := r.accessToken(ctx)
	if err != nil {
		return nil, &ProviderError{Engine: Discussion, Message: "auth token failure", Err: err}
	}

	params := url.Values{}
	params.Set("sort", "relevance")
	params.Set("t", "year")
	params.Set("limit", strconv.Itoa(redditResultLimit))
	params.Set("q", truncateRunes(query, maxRedditQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.APIURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("reddit search failed",
			zap.String("query", query),
			zap.Int("status_code", resp.StatusCode))
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return parseRedditListing(body, query), nil
}

// accessToken performs the client-credentials grant. Tokens are not shared
// between calls.
func (r *RedditSearchEngine) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.AuthURL+"/api/v1/access_token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(r.cfg.ClientID, r.cfg.ClientSecret)
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response has no access_token")
	}
	return tokenResp.AccessToken, nil
}

func parseRedditListing(body []byte, query string) []SearchResult {
	var results []SearchResult
	for _, child := range gjson.GetBytes(body, "data.children").Array() {
		post := child.Get("data")
		permalink := post.Get("permalink").String()
		if permalink == "" {
			continue
		}

		subreddit := post.Get("subreddit_name_prefixed").String() + "/"
		results = append(results, SearchResult{
			Query:        query,
			Source:       Discussion,
			Subsource:    subreddit,
			SubsourceURL: redditSiteURL + "/" + strings.TrimPrefix(subreddit, "/"),
			URL:          redditSiteURL + permalink,
			Title:        post.Get("title").String(),
			Snippet:      TruncateSnippet(post.Get("selftext").String()),
			Thumbnail:    redditThumbnail(post),
		})
	}
	return results
}

// redditThumbnail prefers the preview image, then the first gallery image,
// then the post thumbnail unless it is the "self" placeholder.
func redditThumbnail(post gjson.Result) string {
	if preview := post.Get("preview.images.0.source.url"); preview.Exists() && preview.String() != "" {
		return html.UnescapeString(preview.String())
	}

	if media := post.Get("media_metadata"); media.IsObject() {
		var thumb string
		media.ForEach(func(_, item gjson.Result) bool {
			previews := item.Get("p").Array()
			if len(previews) > 0 {
				thumb = previews[len(previews)-1].Get("u").String()
			} else {
				thumb = item.Get("s.u").String()
			}
			return false
		})
		if thumb != "" {
			return html.UnescapeString(thumb)
		}
	}

	if thumb := post.Get("thumbnail").String(); thumb != "" && thumb != "self" {
		return thumb
	}
	return ""
}
