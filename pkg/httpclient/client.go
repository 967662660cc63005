package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the subset of an HTTP response the crawler needs.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client issues HTTP GET requests.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

type restyClient struct {
	client *resty.Client
}

// NewRestyClient builds a resty-backed Client with the given timeout.
func NewRestyClient(timeout time.Duration) Client {
	return NewRestyClientWith(nil, timeout)
}

// NewRestyClientWith builds a resty-backed Client on top of an existing http.Client.
// A nil hc falls back to resty's default transport.
func NewRestyClientWith(hc *http.Client, timeout time.Duration) Client {
	var c *resty.Client
	if hc != nil {
		c = resty.NewWithClient(hc)
	} else {
		c = resty.New()
	}
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &restyClient{client: c}
}

// Get performs a single GET; non-2xx statuses are returned as responses, not errors.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
