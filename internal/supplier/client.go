package supplier

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/shukli/price-ingest/config"
)

// Client talks to the supplier's plain-HTTP file host. The endpoint rejects
// bare requests, so every call carries browser-like headers.
type Client struct {
	http       *resty.Client
	pricesPath string
	chainID    string
	logger     *zap.Logger
}

func NewClient(cfg *config.SupplierConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait). // fixed delay, no backoff
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "*/*").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.IsError()
		})

	return &Client{
		http:       httpClient,
		pricesPath: strings.TrimSuffix(cfg.PricesPath, "/"),
		chainID:    cfg.ChainID,
		logger:     logger,
	}
}

// Listing fetches the supplier's directory listing page as text.
func (c *Client) Listing(ctx context.Context) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return "", &FetchError{URL: c.http.BaseURL, Err: err}
	}
	if resp.IsError() {
		return "", &FetchError{URL: c.http.BaseURL, StatusCode: resp.StatusCode()}
	}
	return resp.String(), nil
}

// FetchFile retrieves the raw bytes of a single export file.
func (c *Client) FetchFile(ctx context.Context, name string) ([]byte, error) {
	url := c.pricesPath + "/" + name
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if resp.IsError() {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}

	c.logger.Debug("fetched export file",
		zap.String("file", name),
		zap.Int("bytes", len(resp.Body())),
	)
	return resp.Body(), nil
}
