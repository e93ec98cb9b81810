package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultNeocitiesAPI is the public site-info endpoint.
const DefaultNeocitiesAPI = "https://neocities.org/api/info"

// ErrNotNeocities is returned for URLs outside neocities.org.
var ErrNotNeocities = errors.New("not a neocities host")

// SiteInfo is the subset of the Neocities info response the scraper
// consumes. Timestamps arrive in RFC-2822 form.
type SiteInfo struct {
	CreatedAt   string
	LastUpdated string
	Tags        []string
}

// NeocitiesClient queries the Neocities info API. One response serves
// both the temporal resolver and the tag lookup for a URL.
type NeocitiesClient struct {
	apiURL    string
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewNeocitiesClient builds a client against the given endpoint; an
// empty endpoint selects the public API.
func NewNeocitiesClient(apiURL string, userAgent string, timeout time.Duration, logger *zap.Logger) *NeocitiesClient {
	if apiURL == "" {
		apiURL = DefaultNeocitiesAPI
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NeocitiesClient{
		apiURL:    apiURL,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

type infoResponse struct {
	Result string `json:"result"`
	Info   struct {
		CreatedAt   string   `json:"created_at"`
		LastUpdated string   `json:"last_updated"`
		Tags        []string `json:"tags"`
	} `json:"info"`
}

// Info fetches site metadata for a Neocities-hosted URL. Non-Neocities
// hosts return ErrNotNeocities so callers can fall through cheaply.
func (c *NeocitiesClient) Info(ctx context.Context, siteURL string) (*SiteInfo, error) {
	parsed, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("parse site url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	if !strings.Contains(host, "neocities.org") {
		return nil, ErrNotNeocities
	}
	sitename := strings.SplitN(host, ".", 2)[0]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?sitename=%s", c.apiURL, url.QueryEscape(sitename)), nil)
	if err != nil {
		return nil, fmt.Errorf("new info request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch site info: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("Failed to close info body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("site info status %d", resp.StatusCode)
	}

	var decoded infoResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode site info: %w", err)
	}
	if decoded.Result != "success" {
		return nil, fmt.Errorf("site info result %q", decoded.Result)
	}
	return &SiteInfo{
		CreatedAt:   decoded.Info.CreatedAt,
		LastUpdated: decoded.Info.LastUpdated,
		Tags:        decoded.Info.Tags,
	}, nil
}
