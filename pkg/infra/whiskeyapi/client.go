package whiskeyapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/whiskey"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	DefaultBaseURL = "https://evening-citadel-85778.herokuapp.com:443"
	target         = "whiskey"
)

type Config struct {
	BaseURL string `mapstructure:"base_url"`
}

type client struct {
	httpClient httpx.Client
	baseURL    string
	parsers    fastjson.ParserPool
	logger     *logrus.Logger
}

func NewClient(httpClient httpx.Client, cfg Config, logger *logrus.Logger) whiskey.Recommender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

func (c *client) Shoot(ctx context.Context, tags []string) ([]whiskey.Whiskey, error) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	// an empty tag list is still sent; the api decides what an unfiltered shot returns
	params := url.Values{}
	params.Set("tags", strings.Join(cleaned, ","))

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, &httpx.Request{
		URL:     c.baseURL + "/shoot/?" + params.Encode(),
		Headers: map[string]string{"Accept": "application/json"},
	})
	prometheus.ObserveExternalCall(target, start)
	if err != nil {
		return nil, fmt.Errorf("whiskey search: %w", err)
	}
	if !resp.OK() {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"tags":   cleaned,
		}).Warn("whiskey search returned non-OK status")
		return nil, resp.StatusError(target)
	}

	p := c.parsers.Get()
	defer c.parsers.Put(p)

	v, err := p.ParseBytes(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whiskey search: invalid response: %w", err)
	}

	results := v.GetArray("results")
	if v.GetInt("count") == 0 || len(results) == 0 {
		return nil, whiskey.ErrNoWhiskey
	}

	out := make([]whiskey.Whiskey, 0, len(results))
	for _, r := range results {
		out = append(out, whiskey.Whiskey{
			Title:       string(r.GetStringBytes("title")),
			Description: string(r.GetStringBytes("description")),
			Price:       scalar(r.Get("price")),
		})
	}
	return out, nil
}

// scalar renders a string or number field; the API is not consistent about
// which one it sends for prices.
func scalar(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.String()
	default:
		return ""
	}
}
