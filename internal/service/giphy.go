package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/memeworks/memebuilder-back/internal/config"
)

const giphySearchURL = "https://api.giphy.com/v1/gifs/search"

type (
	// GifItem is the normalized shape of one GIF search result.
	GifItem struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		URL      string `json:"url"`
		EmbedURL string `json:"embed_url"`
		ImageURL string `json:"image_url"`
		Source   string `json:"source"`
	}

	// GifFetcher searches an upstream GIF library.
	GifFetcher interface {
		Search(ctx context.Context, query string, limit int) ([]GifItem, error)
	}

	GiphyClient struct {
		http   *resty.Client
		apiKey string
	}

	giphyResponse struct {
		Data []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			URL      string `json:"url"`
			EmbedURL string `json:"embed_url"`
			Images   struct {
				FixedHeight struct {
					URL string `json:"url"`
				} `json:"fixed_height"`
			} `json:"images"`
		} `json:"data"`
	}
)

func NewGiphyClient(cfg *config.Config) GifFetcher {
	return &GiphyClient{
		http:   resty.New().SetTimeout(10 * time.Second),
		apiKey: cfg.GiphyAPIKey,
	}
}

// Search queries Giphy. Without an API key it returns an empty set rather
// than failing, so a keyless deployment still serves the endpoint.
func (c *GiphyClient) Search(ctx context.Context, query string, limit int) ([]GifItem, error) {
	if c.apiKey == "" {
		return []GifItem{}, nil
	}

	body := giphyResponse{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key": c.apiKey,
			"q":       query,
			"limit":   strconv.Itoa(limit),
			"offset":  "0",
			"rating":  "g",
		}).
		SetResult(&body).
		Get(giphySearchURL)
	if err != nil {
		return nil, errors.Wrap(err, "giphy request")
	}
	if resp.IsError() {
		return nil, errors.Errorf("giphy responded with status %d", resp.StatusCode())
	}

	gifs := make([]GifItem, 0, len(body.Data))
	for _, gif := range body.Data {
		gifs = append(gifs, GifItem{
			ID:       gif.ID,
			Title:    gif.Title,
			URL:      gif.URL,
			EmbedURL: gif.EmbedURL,
			ImageURL: gif.Images.FixedHeight.URL,
			Source:   "giphy",
		})
	}
	return gifs, nil
}
