package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/movie"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	target         = "tmdb"
)

type Config struct {
	BaseURL      string `mapstructure:"base_url"`
	ApiKey       string `mapstructure:"api_key"`
	Language     string `mapstructure:"language"`
	IncludeAdult bool   `mapstructure:"include_adult"`
}

type client struct {
	httpClient httpx.Client
	cfg        Config
	parsers    fastjson.ParserPool
	logger     *logrus.Logger
}

func NewClient(httpClient httpx.Client, cfg Config, logger *logrus.Logger) movie.Finder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	return &client{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

func (c *client) Search(ctx context.Context, title string) (*movie.Movie, error) {
	params := url.Values{}
	params.Set("api_key", c.cfg.ApiKey)
	params.Set("query", title)
	params.Set("language", c.cfg.Language)
	params.Set("page", "1")
	params.Set("include_adult", fmt.Sprintf("%t", c.cfg.IncludeAdult))

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, &httpx.Request{
		URL:     strings.TrimRight(c.cfg.BaseURL, "/") + "/search/movie?" + params.Encode(),
		Headers: map[string]string{"Accept": "application/json"},
	})
	prometheus.ObserveExternalCall(target, start)
	if err != nil {
		return nil, fmt.Errorf("movie search: %w", err)
	}
	if !resp.OK() {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"title":  title,
		}).Warn("movie search returned non-OK status")
		return nil, resp.StatusError(target)
	}

	p := c.parsers.Get()
	defer c.parsers.Put(p)

	v, err := p.ParseBytes(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("movie search: invalid response: %w", err)
	}

	results := v.GetArray("results")
	if v.GetInt("total_results") == 0 || len(results) == 0 {
		return nil, movie.ErrMovieNotFound
	}

	first := results[0]
	return &movie.Movie{
		Title:         string(first.GetStringBytes("title")),
		OriginalTitle: string(first.GetStringBytes("original_title")),
		Overview:      string(first.GetStringBytes("overview")),
	}, nil
}
