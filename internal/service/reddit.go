package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/memeworks/memebuilder-back/internal/config"
)

const redditBaseURL = "https://api.reddit.com"

var imageExtensions = []string{".jpg", ".png", ".gif", ".jpeg"}

type (
	// TrendingItem is the normalized shape of one trending post.
	TrendingItem struct {
		ID        string  `json:"id"`
		Title     string  `json:"title"`
		ImageURL  string  `json:"image_url"`
		Score     int     `json:"score"`
		Author    string  `json:"author"`
		CreatedAt float64 `json:"created_at"`
		Subreddit string  `json:"subreddit"`
		Source    string  `json:"source"`
	}

	// TrendingFetcher pulls hot posts from an upstream feed.
	TrendingFetcher interface {
		FetchHot(ctx context.Context, subreddit string, limit int) ([]TrendingItem, error)
	}

	RedditClient struct {
		http      *resty.Client
		userAgent string
	}

	redditListing struct {
		Data struct {
			Children []struct {
				Data struct {
					ID         string  `json:"id"`
					Title      string  `json:"title"`
					URL        string  `json:"url"`
					Score      int     `json:"score"`
					Author     string  `json:"author"`
					CreatedUTC float64 `json:"created_utc"`
					Subreddit  string  `json:"subreddit"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
)

func NewRedditClient(cfg *config.Config) TrendingFetcher {
	return &RedditClient{
		http: resty.New().
			SetBaseURL(redditBaseURL).
			SetTimeout(10 * time.Second),
		userAgent: cfg.RedditUserAgent,
	}
}

// FetchHot returns the hot posts of a subreddit that link straight to an
// image, normalized for the trending feed.
func (c *RedditClient) FetchHot(ctx context.Context, subreddit string, limit int) ([]TrendingItem, error) {
	listing := redditListing{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", c.userAgent).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&listing).
		Get(fmt.Sprintf("/r/%s/hot", subreddit))
	if err != nil {
		return nil, errors.Wrap(err, "reddit request")
	}
	if resp.IsError() {
		return nil, errors.Errorf("reddit responded with status %d", resp.StatusCode())
	}

	items := make([]TrendingItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		if !isImageURL(post.URL) {
			continue
		}
		items = append(items, TrendingItem{
			ID:        post.ID,
			Title:     post.Title,
			ImageURL:  post.URL,
			Score:     post.Score,
			Author:    post.Author,
			CreatedAt: post.CreatedUTC,
			Subreddit: post.Subreddit,
			Source:    "reddit",
		})
	}
	return items, nil
}

func isImageURL(url string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(url, ext) {
			return true
		}
	}
	return false
}
