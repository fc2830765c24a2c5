package printful

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Printful API endpoint used unless overridden.
const DefaultBaseURL = "https://api.printful.com"

// Option is custom configuration of Client.
type Option func(c *Client)

// Client calls the Printful API with basic auth and decodes response envelopes.
type Client struct {
	client     *http.Client
	baseURL    string
	authHeader string
	logger     *zerolog.Logger
}

// NewClient returns new Client authenticated with apiKey.
// The same client should be reused for all calls of one configuration.
func NewClient(client *http.Client, apiKey string, logger *zerolog.Logger, ops ...Option) *Client {
	cli := &Client{
		client:     client,
		baseURL:    DefaultBaseURL,
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey)),
		logger:     logger,
	}

	for _, op := range ops {
		op(cli)
	}

	return cli
}

// Get fetches endpoint and returns the decoded response envelope.
func (c *Client) Get(ctx context.Context, endpoint string) (*Response, error) {
	url := c.baseURL + "/" + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("Authorization", c.authHeader)

	c.logger.Debug().Msgf("%s %s", req.Method, endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't get http response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s %s", ErrStatusNotOK, endpoint, resp.Status)
	}

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("can't decode response: %w", err)
	}

	return &envelope, nil
}

// WithBaseURL sets Client's custom API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}
